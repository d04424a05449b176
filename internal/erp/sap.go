package erp

import (
	"log/slog"

	"github.com/finspect/invoice-pipeline/internal/entity"
)

// SAPAdapter maps records into SAP document fields.
type SAPAdapter struct {
	*GenericAdapter
}

func NewSAPAdapter(logger *slog.Logger) *SAPAdapter {
	base := newBaseAdapter("SAP", logger)
	a := &SAPAdapter{GenericAdapter: base}
	base.transform = a.sapTransform
	return a
}

func (a *SAPAdapter) sapTransform(rec entity.InvoiceRecord) map[string]any {
	base := a.genericTransform(rec)
	return map[string]any{
		"BUKRS": "CompanyCode",          // company code
		"LIFNR": base["vendor"],         // vendor number
		"BLDAT": base["invoice_date"],   // document date
		"WRBTR": base["total_amount"],   // amount
		"WAERS": "USD",                  // currency
		"XBLNR": base["invoice_number"], // reference
		"BSART": "ZINV",                 // document type
		"ITEMS": base["line_items"],
	}
}
