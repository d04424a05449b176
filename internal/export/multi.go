package export

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// MultiFormatExporter fans one record out to several formats. All formats
// are attempted; failures are joined so one bad sink does not mask another.
type MultiFormatExporter struct {
	exporters map[constants.ExportFormat]Exporter
	formats   []constants.ExportFormat
	logger    *slog.Logger
}

func NewMultiFormatExporter(formats []constants.ExportFormat, prettyJSON bool, logger *slog.Logger) (*MultiFormatExporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	exporters := make(map[constants.ExportFormat]Exporter, len(formats))
	for _, format := range formats {
		exp, err := newForFormat(format, prettyJSON, logger)
		if err != nil {
			return nil, err
		}
		exporters[format] = exp
	}
	return &MultiFormatExporter{exporters: exporters, formats: formats, logger: logger}, nil
}

func (e *MultiFormatExporter) Export(rec entity.InvoiceRecord, basePath string) error {
	var errs []error
	for _, format := range e.formats {
		if err := e.exporters[format].Export(rec, basePath); err != nil {
			e.logger.Error("export.format.failed", "format", string(format), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", format, err))
		}
	}
	return errors.Join(errs...)
}
