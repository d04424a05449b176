package entity

import (
	"github.com/finspect/invoice-pipeline/constants"
)

// InvoiceRecord is the canonical structured output shared by extraction,
// validation, anomaly screening, and the export/ERP sinks.
//
// Numeric fields, once present, are finite non-negative decimals; absence is
// represented by nil, never by a sentinel number. InvoiceDate is kept as the
// raw matched string and left unparsed at this layer.
type InvoiceRecord struct {
	InvoiceNumber    *string            `json:"invoice_number"`
	InvoiceDate      *string            `json:"invoice_date"`
	Supplier         *string            `json:"supplier"`
	Subtotal         *float64           `json:"subtotal"`
	VAT              *float64           `json:"vat"`
	Total            *float64           `json:"total"`
	LineItems        []LineItem         `json:"line_items"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
}

// NewInvoiceRecord returns an empty record with initialized collections.
func NewInvoiceRecord() InvoiceRecord {
	return InvoiceRecord{
		LineItems:        []LineItem{},
		ConfidenceScores: map[string]float64{},
	}
}

// LineItem is one row of the invoice body. Quantity, UnitPrice and Total are
// pointers because OCR-derived items may arrive with sub-fields missing; the
// validator reports each missing sub-field individually.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    *int     `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Total       *float64 `json:"total"`
}

// ValidationOutcome is the consistency validator's verdict.
// Valid == (Errors is empty), evaluated before strict-mode promotion.
type ValidationOutcome struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Anomaly is one finding from the anomaly screen.
type Anomaly struct {
	Field    string                `json:"field"`
	Type     constants.AnomalyType `json:"type"`
	Severity constants.Severity    `json:"severity"`
	Message  string                `json:"message"`
	Value    *float64              `json:"value,omitempty"`
}

// AnomalyReport aggregates the anomaly screen output for one record.
type AnomalyReport struct {
	HasAnomalies   bool               `json:"has_anomalies"`
	Anomalies      []Anomaly          `json:"anomalies"`
	Scores         map[string]float64 `json:"scores"`
	TotalAnomalies int                `json:"total_anomalies"`
}

// Helpers shared by the validator, anomaly screen, and sinks.

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }

// IntPtr returns a pointer to n.
func IntPtr(n int) *int { return &n }

// SetString assigns a matched string field by name.
func (r *InvoiceRecord) SetString(name, value string) {
	switch name {
	case constants.FieldInvoiceNumber:
		r.InvoiceNumber = &value
	case constants.FieldInvoiceDate:
		r.InvoiceDate = &value
	case constants.FieldSupplier:
		r.Supplier = &value
	}
}

// SetAmount assigns a parsed amount field by name.
func (r *InvoiceRecord) SetAmount(name string, value float64) {
	switch name {
	case constants.FieldSubtotal:
		r.Subtotal = &value
	case constants.FieldVAT:
		r.VAT = &value
	case constants.FieldTotal:
		r.Total = &value
	}
}

// Field reports presence of a named scalar field on the record. Used by the
// configurable required-field check.
func (r *InvoiceRecord) Field(name string) (present bool) {
	switch name {
	case constants.FieldInvoiceNumber:
		return r.InvoiceNumber != nil && *r.InvoiceNumber != ""
	case constants.FieldInvoiceDate:
		return r.InvoiceDate != nil && *r.InvoiceDate != ""
	case constants.FieldSupplier:
		return r.Supplier != nil && *r.Supplier != ""
	case constants.FieldSubtotal:
		return r.Subtotal != nil
	case constants.FieldVAT:
		return r.VAT != nil
	case constants.FieldTotal:
		return r.Total != nil
	case constants.FieldLineItems:
		return len(r.LineItems) > 0
	default:
		return false
	}
}
