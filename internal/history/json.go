package history

import (
	"context"
	"encoding/json"
	"os"

	"github.com/finspect/invoice-pipeline/internal/common"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// JSONSource reads a corpus from a JSON file holding an array of serialized
// invoice records, the same shape the JSON exporter writes.
type JSONSource struct {
	Path string
}

func NewJSONSource(path string) *JSONSource {
	return &JSONSource{Path: path}
}

func (s *JSONSource) Load(_ context.Context) ([]entity.InvoiceRecord, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, common.WrapError(err, "read history file")
	}
	var records []entity.InvoiceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, common.WrapError(err, "parse history file")
	}
	return records, nil
}
