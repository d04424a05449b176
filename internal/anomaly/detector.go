// Package anomaly flags statistically unusual or structurally suspicious
// values on an invoice record, optionally against a caller-supplied
// historical corpus.
package anomaly

import (
	"fmt"
	"log/slog"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// Detector is the record -> report stage. Implementations never raise past
// their boundary; internal failures degrade to an empty report.
type Detector interface {
	Detect(rec entity.InvoiceRecord, history []entity.InvoiceRecord) entity.AnomalyReport
}

// New builds the detector selected by kind. threshold is carried as a
// reserved tuning knob; the documented statistical cutoffs are fixed.
func New(kind constants.DetectorKind, threshold float64, logger *slog.Logger) (Detector, error) {
	switch kind {
	case constants.DetectorStatistical:
		return NewStatisticalDetector(threshold, logger), nil
	case constants.DetectorRuleBased:
		return NewRuleBasedDetector(threshold, logger), nil
	default:
		return nil, fmt.Errorf("unknown detector kind: %q", kind)
	}
}
