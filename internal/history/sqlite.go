package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/finspect/invoice-pipeline/internal/common"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// SQLiteSource reads a corpus from a caller-supplied SQLite database. The
// database is opened read-only; this system never writes history.
//
// Expected table (column names match the record's JSON keys):
//
//	invoices(invoice_number, invoice_date, supplier, subtotal, vat, total)
type SQLiteSource struct {
	Path  string
	Table string
}

func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{Path: path, Table: "invoices"}
}

func (s *SQLiteSource) Load(ctx context.Context) ([]entity.InvoiceRecord, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", s.Path))
	if err != nil {
		return nil, common.WrapError(err, "open history db")
	}
	defer db.Close()

	query := fmt.Sprintf(
		"SELECT invoice_number, invoice_date, supplier, subtotal, vat, total FROM %s", s.Table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, common.WrapError(err, "query history")
	}
	defer rows.Close()

	var records []entity.InvoiceRecord
	for rows.Next() {
		var (
			number, date, supplier sql.NullString
			subtotal, vat, total   sql.NullFloat64
		)
		if err := rows.Scan(&number, &date, &supplier, &subtotal, &vat, &total); err != nil {
			return nil, common.WrapError(err, "scan history row")
		}
		rec := entity.NewInvoiceRecord()
		rec.InvoiceNumber = nullStr(number)
		rec.InvoiceDate = nullStr(date)
		rec.Supplier = nullStr(supplier)
		rec.Subtotal = nullFloat(subtotal)
		rec.VAT = nullFloat(vat)
		rec.Total = nullFloat(total)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(err, "iterate history rows")
	}
	return records, nil
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
