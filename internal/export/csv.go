package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/common"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// CSVExporter flattens the record into a single-row CSV. Line items go to a
// separate "<base>_line_items.csv" side file; the main file carries only
// their count.
type CSVExporter struct {
	logger *slog.Logger
}

func NewCSVExporter(logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{logger: logger}
}

func (e *CSVExporter) Export(rec entity.InvoiceRecord, basePath string) error {
	path := basePath + ".csv"
	headers, row := flatten(rec)

	if err := writeCSV(path, headers, [][]string{row}); err != nil {
		return common.WrapError(err, "write csv")
	}
	e.logger.Info("export.csv.ok", "path", path)

	if len(rec.LineItems) > 0 {
		itemsPath := basePath + "_line_items.csv"
		if err := e.exportLineItems(rec.LineItems, itemsPath); err != nil {
			return common.WrapError(err, "write line items csv")
		}
		e.logger.Info("export.csv.line_items.ok", "path", itemsPath, "rows", len(rec.LineItems))
	}
	return nil
}

func (e *CSVExporter) exportLineItems(items []entity.LineItem, path string) error {
	headers := []string{"description", "quantity", "total", "unit_price"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Description,
			intOrEmpty(item.Quantity),
			floatOrEmpty(item.Total),
			floatOrEmpty(item.UnitPrice),
		})
	}
	return writeCSV(path, headers, rows)
}

// flatten produces the main-file header and value row: scalar fields,
// line_items_count, then confidence_<field> columns in sorted key order.
func flatten(rec entity.InvoiceRecord) ([]string, []string) {
	headers := []string{
		constants.FieldInvoiceNumber,
		constants.FieldInvoiceDate,
		constants.FieldSupplier,
		constants.FieldSubtotal,
		constants.FieldVAT,
		constants.FieldTotal,
		"line_items_count",
	}
	row := []string{
		strOrEmpty(rec.InvoiceNumber),
		strOrEmpty(rec.InvoiceDate),
		strOrEmpty(rec.Supplier),
		floatOrEmpty(rec.Subtotal),
		floatOrEmpty(rec.VAT),
		floatOrEmpty(rec.Total),
		strconv.Itoa(len(rec.LineItems)),
	}

	keys := make([]string, 0, len(rec.ConfidenceScores))
	for k := range rec.ConfidenceScores {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		headers = append(headers, "confidence_"+k)
		row = append(row, formatFloat(rec.ConfidenceScores[k]))
	}
	return headers, row
}

func writeCSV(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatOrEmpty(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}

func intOrEmpty(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func formatFloat(f float64) string {
	return fmt.Sprintf("%v", f)
}
