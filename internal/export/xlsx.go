package export

import (
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/finspect/invoice-pipeline/internal/common"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// XLSXExporter writes an XLSX workbook: an "Invoice" sheet with the scalar
// fields and a "Line Items" sheet with one row per item.
type XLSXExporter struct {
	logger *slog.Logger
}

func NewXLSXExporter(logger *slog.Logger) *XLSXExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXExporter{logger: logger}
}

func (e *XLSXExporter) Export(rec entity.InvoiceRecord, basePath string) error {
	f := excelize.NewFile()
	const sheet = "Invoice"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return common.WrapError(err, "xlsx sheet")
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers, row := flatten(rec)
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		cell, _ = excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheet, cell, row[i])
	}
	_ = f.SetColWidth(sheet, "A", "C", 22)
	_ = f.SetColWidth(sheet, "D", "G", 14)

	if len(rec.LineItems) > 0 {
		const itemsSheet = "Line Items"
		if _, err := f.NewSheet(itemsSheet); err != nil {
			return common.WrapError(err, "xlsx line items sheet")
		}
		itemHeaders := []string{"Description", "Quantity", "Unit Price", "Total"}
		for i, h := range itemHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(itemsSheet, cell, h)
		}
		rowIdx := 2
		for _, item := range rec.LineItems {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, rowIdx)
				_ = f.SetCellValue(itemsSheet, cell, v)
			}
			write(1, item.Description)
			if item.Quantity != nil {
				write(2, *item.Quantity)
			}
			if item.UnitPrice != nil {
				write(3, *item.UnitPrice)
			}
			if item.Total != nil {
				write(4, *item.Total)
			}
			rowIdx++
		}
		_ = f.SetColWidth(itemsSheet, "A", "A", 40)
		_ = f.SetColWidth(itemsSheet, "B", "D", 14)
	}

	path := basePath + ".xlsx"
	if err := f.SaveAs(path); err != nil {
		return common.WrapError(err, "xlsx write")
	}
	e.logger.Info("export.xlsx.ok", "path", path, "line_items", len(rec.LineItems))
	return nil
}
