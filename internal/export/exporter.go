// Package export writes finalized invoice records to JSON, CSV, and XLSX
// sinks.
package export

import (
	"fmt"
	"log/slog"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// Exporter writes one record under basePath; each implementation appends its
// own extension (and side files where the format needs them).
type Exporter interface {
	Export(rec entity.InvoiceRecord, basePath string) error
}

// New builds an exporter for the given formats: a single-format exporter for
// one format, a fan-out for several.
func New(formats []constants.ExportFormat, prettyJSON bool, logger *slog.Logger) (Exporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(formats) == 0 {
		return nil, fmt.Errorf("no export formats configured")
	}
	if len(formats) == 1 {
		return newForFormat(formats[0], prettyJSON, logger)
	}
	return NewMultiFormatExporter(formats, prettyJSON, logger)
}

func newForFormat(format constants.ExportFormat, prettyJSON bool, logger *slog.Logger) (Exporter, error) {
	switch format {
	case constants.FormatJSON:
		return NewJSONExporter(prettyJSON, logger), nil
	case constants.FormatCSV:
		return NewCSVExporter(logger), nil
	case constants.FormatXLSX:
		return NewXLSXExporter(logger), nil
	default:
		return nil, fmt.Errorf("unknown export format: %q", format)
	}
}
