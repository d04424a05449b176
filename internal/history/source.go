// Package history loads the caller-supplied historical corpus used as the
// anomaly screen's statistical baseline. Sources are read-only; nothing here
// persists records.
package history

import (
	"context"

	"github.com/finspect/invoice-pipeline/internal/entity"
)

// Source yields previously processed invoice records.
type Source interface {
	Load(ctx context.Context) ([]entity.InvoiceRecord, error)
}
