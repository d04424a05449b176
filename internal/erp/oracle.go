package erp

import (
	"fmt"
	"log/slog"

	"github.com/finspect/invoice-pipeline/internal/entity"
)

// OracleAdapter maps records into Oracle AP invoice fields.
type OracleAdapter struct {
	*GenericAdapter
}

func NewOracleAdapter(logger *slog.Logger) *OracleAdapter {
	base := newBaseAdapter("Oracle", logger)
	a := &OracleAdapter{GenericAdapter: base}
	base.transform = a.oracleTransform
	return a
}

func (a *OracleAdapter) oracleTransform(rec entity.InvoiceRecord) map[string]any {
	base := a.genericTransform(rec)
	return map[string]any{
		"vendor_id":                base["vendor"],
		"invoice_num":              base["invoice_number"],
		"invoice_date":             base["invoice_date"],
		"invoice_amount":           base["total_amount"],
		"tax_amount":               base["tax_amount"],
		"currency_code":            "USD",
		"invoice_type_lookup_code": "STANDARD",
		"description":              fmt.Sprintf("Invoice %v", base["invoice_number"]),
		"lines":                    base["line_items"],
	}
}
