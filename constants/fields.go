package constants

// Canonical field names for the structured invoice record. These are the keys
// used in confidence maps, required-field configuration, and export columns.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldInvoiceDate   = "invoice_date"
	FieldSupplier      = "supplier"
	FieldSubtotal      = "subtotal"
	FieldVAT           = "vat"
	FieldTotal         = "total"
	FieldLineItems     = "line_items"
)

// DefaultRequiredFields is the validation default when no required-field set
// is configured.
var DefaultRequiredFields = []string{FieldSupplier, FieldTotal, FieldInvoiceDate}

// DefaultVATRates are the allowed VAT percentages used by the rate
// plausibility check when none are configured.
var DefaultVATRates = []float64{0, 5, 10, 20}

// DefaultConfidence is the confidence assigned to every pattern-matched field.
// It represents "regex match, unverified" and is constant across fields.
const DefaultConfidence = 0.8
