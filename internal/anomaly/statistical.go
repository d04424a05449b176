package anomaly

import (
	"fmt"
	"log/slog"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// zScoreThreshold marks a field as a statistical outlier.
const zScoreThreshold = 3.0

// zScoreHighSeverity escalates an outlier to high severity.
const zScoreHighSeverity = 4.0

// StatisticalDetector runs z-score and IQR tests against the historical
// corpus, then appends the rule-based checks. With fewer than 2 comparable
// records it degrades to rule-based checks only.
type StatisticalDetector struct {
	threshold float64 // reserved tuning knob
	logger    *slog.Logger
}

func NewStatisticalDetector(threshold float64, logger *slog.Logger) *StatisticalDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatisticalDetector{threshold: threshold, logger: logger}
}

func (d *StatisticalDetector) Detect(rec entity.InvoiceRecord, history []entity.InvoiceRecord) (report entity.AnomalyReport) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("anomaly.statistical.panic", "recovered", r)
			report = emptyReport()
		}
	}()

	if len(history) < 2 {
		return ruleBasedDetection(rec)
	}

	anomalies := []entity.Anomaly{}
	scores := map[string]float64{}

	totals := historicalAmounts(history, func(r entity.InvoiceRecord) *float64 { return r.Total })
	vats := historicalAmounts(history, func(r entity.InvoiceRecord) *float64 { return r.VAT })

	// total: z-score plus IQR
	if rec.Total != nil && len(totals) > 0 {
		total := *rec.Total
		z := zScore(total, totals)
		scores["total_z_score"] = z

		if z > zScoreThreshold || iqrOutlier(total, totals) {
			severity := constants.SeverityMedium
			if z > zScoreHighSeverity {
				severity = constants.SeverityHigh
			}
			anomalies = append(anomalies, entity.Anomaly{
				Field:    constants.FieldTotal,
				Type:     constants.AnomalyStatisticalOutlier,
				Severity: severity,
				Message:  fmt.Sprintf("Total amount is unusual (z-score: %.2f)", z),
				Value:    entity.FloatPtr(total),
			})
		}
	}

	// vat: z-score only
	if rec.VAT != nil && len(vats) > 0 {
		vat := *rec.VAT
		z := zScore(vat, vats)
		scores["vat_z_score"] = z

		if z > zScoreThreshold {
			anomalies = append(anomalies, entity.Anomaly{
				Field:    constants.FieldVAT,
				Type:     constants.AnomalyStatisticalOutlier,
				Severity: constants.SeverityMedium,
				Message:  fmt.Sprintf("VAT amount is unusual (z-score: %.2f)", z),
				Value:    entity.FloatPtr(vat),
			})
		}
	}

	ruleBased := ruleBasedDetection(rec)
	anomalies = append(anomalies, ruleBased.Anomalies...)
	for k, v := range ruleBased.Scores {
		scores[k] = v
	}

	return entity.AnomalyReport{
		HasAnomalies:   len(anomalies) > 0,
		Anomalies:      anomalies,
		Scores:         scores,
		TotalAnomalies: len(anomalies),
	}
}

// historicalAmounts collects present, non-nil values of one field across the
// corpus.
func historicalAmounts(history []entity.InvoiceRecord, get func(entity.InvoiceRecord) *float64) []float64 {
	var out []float64
	for _, h := range history {
		if v := get(h); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

func emptyReport() entity.AnomalyReport {
	return entity.AnomalyReport{
		Anomalies: []entity.Anomaly{},
		Scores:    map[string]float64{},
	}
}
