// Package extract maps raw OCR text to a partially populated invoice record
// with per-field confidence scores.
package extract

import (
	"fmt"
	"log/slog"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// FieldExtractor is the text -> fields stage. Implementations never fail: on
// internal error they return the record with whatever fields were extracted
// and an empty confidence map.
type FieldExtractor interface {
	Extract(text string, raw map[string]any) entity.InvoiceRecord
}

// New builds the extractor selected by kind.
//
// confidenceThreshold is carried for future filtering; the pattern engine's
// fixed-confidence policy does not consult it.
func New(kind constants.ExtractorKind, confidenceThreshold float64, logger *slog.Logger) (FieldExtractor, error) {
	switch kind {
	case constants.ExtractorPattern:
		return NewPatternExtractor(confidenceThreshold, logger), nil
	case constants.ExtractorEntity:
		return NewEntityExtractor(confidenceThreshold, nil, logger), nil
	default:
		return nil, fmt.Errorf("unknown extractor kind: %q", kind)
	}
}
