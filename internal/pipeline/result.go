package pipeline

import (
	"github.com/google/uuid"

	"github.com/finspect/invoice-pipeline/internal/entity"
)

// StageInfo records one stage's outcome. Every stage that ran appears in the
// report, even when a later stage failed.
type StageInfo struct {
	Success bool           `json:"success"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// Result is the complete processing report for one invoice. The orchestrator
// always returns a populated Result; it never lets a panic escape.
type Result struct {
	JobID       uuid.UUID                 `json:"job_id"`
	InvoicePath string                    `json:"invoice_path"`
	Success     bool                      `json:"success"`
	Error       string                    `json:"error,omitempty"`
	Stages      map[string]StageInfo      `json:"stages"`
	Record      *entity.InvoiceRecord     `json:"extracted_data,omitempty"`
	Validation  *entity.ValidationOutcome `json:"validation,omitempty"`
	Anomalies   *entity.AnomalyReport     `json:"anomalies,omitempty"`
}

// BatchResult aggregates a batch run. Successful+Failed always equals Total
// regardless of worker scheduling.
type BatchResult struct {
	BatchID    uuid.UUID `json:"batch_id"`
	Total      int       `json:"total"`
	Successful int       `json:"successful"`
	Failed     int       `json:"failed"`
	Results    []Result  `json:"results"`
}
