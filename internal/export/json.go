package export

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/finspect/invoice-pipeline/internal/common"
	"github.com/finspect/invoice-pipeline/internal/entity"
	"github.com/finspect/invoice-pipeline/internal/extract"
)

// JSONExporter writes the record as schema-validated JSON. The output is
// round-trip safe: ReadJSON reproduces identical field values, nulls
// included.
type JSONExporter struct {
	pretty bool
	logger *slog.Logger
}

func NewJSONExporter(pretty bool, logger *slog.Logger) *JSONExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONExporter{pretty: pretty, logger: logger}
}

func (e *JSONExporter) Export(rec entity.InvoiceRecord, basePath string) error {
	var (
		data []byte
		err  error
	)
	if e.pretty {
		data, err = json.MarshalIndent(rec, "", "  ")
	} else {
		data, err = json.Marshal(rec)
	}
	if err != nil {
		return common.WrapError(err, "marshal record")
	}
	if err := extract.ValidateRecordJSON(data); err != nil {
		return common.WrapError(err, "validate record")
	}

	path := basePath + ".json"
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return common.WrapError(err, "write json")
	}
	e.logger.Info("export.json.ok", "path", path, "bytes", len(data))
	return nil
}

// ReadJSON loads a previously exported record. Also used to assemble
// historical corpora from past exports.
func ReadJSON(path string) (entity.InvoiceRecord, error) {
	rec := entity.NewInvoiceRecord()
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, common.WrapError(err, "read record")
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, common.WrapError(err, "parse record")
	}
	return rec, nil
}
