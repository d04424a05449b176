package anomaly

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// maxVATPercent is the absolute rate ceiling for the unusual-rate rule. The
// validator separately warns on rates far from the allowed set; this check
// intentionally duplicates the concern with a different threshold and purpose.
const maxVATPercent = 30.0

// roundNumberDivisor marks suspiciously round totals.
const roundNumberDivisor = 1000.0

// RuleBasedDetector runs the structural business-rule checks only; the
// historical corpus is ignored.
type RuleBasedDetector struct {
	threshold float64 // reserved tuning knob
	logger    *slog.Logger
}

func NewRuleBasedDetector(threshold float64, logger *slog.Logger) *RuleBasedDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuleBasedDetector{threshold: threshold, logger: logger}
}

func (d *RuleBasedDetector) Detect(rec entity.InvoiceRecord, _ []entity.InvoiceRecord) (report entity.AnomalyReport) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("anomaly.rules.panic", "recovered", r)
			report = emptyReport()
		}
	}()
	return ruleBasedDetection(rec)
}

// ruleBasedDetection is shared by both detectors: round-number totals,
// duplicate line items, missing supplier, and an absolute VAT-rate ceiling.
func ruleBasedDetection(rec entity.InvoiceRecord) entity.AnomalyReport {
	anomalies := []entity.Anomaly{}

	if rec.Total != nil {
		total := *rec.Total
		if total > roundNumberDivisor && math.Mod(total, roundNumberDivisor) == 0 {
			anomalies = append(anomalies, entity.Anomaly{
				Field:    constants.FieldTotal,
				Type:     constants.AnomalySuspiciousPattern,
				Severity: constants.SeverityLow,
				Message:  "Total is a very round number",
				Value:    entity.FloatPtr(total),
			})
		}
	}

	if hasDuplicateItems(rec.LineItems) {
		anomalies = append(anomalies, entity.Anomaly{
			Field:    constants.FieldLineItems,
			Type:     constants.AnomalyDuplicateItems,
			Severity: constants.SeverityMedium,
			Message:  "Duplicate line items detected",
		})
	}

	if rec.Supplier == nil || *rec.Supplier == "" {
		anomalies = append(anomalies, entity.Anomaly{
			Field:    constants.FieldSupplier,
			Type:     constants.AnomalyMissingCriticalField,
			Severity: constants.SeverityHigh,
			Message:  "Supplier information is missing",
		})
	}

	if rec.VAT != nil && rec.Subtotal != nil && *rec.Subtotal > 0 {
		rate := *rec.VAT / *rec.Subtotal * 100
		if rate > maxVATPercent {
			anomalies = append(anomalies, entity.Anomaly{
				Field:    constants.FieldVAT,
				Type:     constants.AnomalyUnusualRate,
				Severity: constants.SeverityHigh,
				Message:  fmt.Sprintf("VAT rate is unusually high: %.2f%%", rate),
				Value:    entity.FloatPtr(rate),
			})
		}
	}

	return entity.AnomalyReport{
		HasAnomalies:   len(anomalies) > 0,
		Anomalies:      anomalies,
		Scores:         map[string]float64{},
		TotalAnomalies: len(anomalies),
	}
}

// hasDuplicateItems reports any case-insensitive description repeat. One
// finding per record, not one per duplicate.
func hasDuplicateItems(items []entity.LineItem) bool {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		key := strings.ToLower(item.Description)
		if _, dup := seen[key]; dup {
			return true
		}
		seen[key] = struct{}{}
	}
	return false
}
