// Package validation checks extracted invoice records for presence, numeric
// sanity, arithmetic consistency, and plausibility of dates and VAT rates.
package validation

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// amountTolerance is the absolute rounding slack for arithmetic checks.
const amountTolerance = 0.01

// rateTolerance is how close (in percentage points) a computed VAT rate must
// be to an allowed rate.
const rateTolerance = 0.5

// maxInvoiceAgeDays flags invoices older than ten years.
const maxInvoiceAgeDays = 3650

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"2/1/2006",
	"1/2/2006",
	"2006-01-02",
	"2-1-2006",
	"1-2-2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Validator is the record -> outcome stage. Implementations never raise past
// their boundary; internal failures degrade to a single synthetic error.
type Validator interface {
	Validate(rec entity.InvoiceRecord) entity.ValidationOutcome
}

// InvoiceValidator applies the cross-field consistency rules. Errors block
// (Valid=false), warnings advise. In strict mode warnings are promoted into
// the error list after Valid has been computed from the original error set;
// Valid deliberately reflects only pre-promotion errors.
type InvoiceValidator struct {
	requiredFields []string
	vatRates       []float64
	strictMode     bool
	now            func() time.Time
	logger         *slog.Logger
}

// New builds an InvoiceValidator. Empty requiredFields or vatRates fall back
// to the documented defaults.
func New(requiredFields []string, vatRates []float64, strictMode bool, logger *slog.Logger) *InvoiceValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if len(requiredFields) == 0 {
		requiredFields = constants.DefaultRequiredFields
	}
	if len(vatRates) == 0 {
		vatRates = constants.DefaultVATRates
	}
	return &InvoiceValidator{
		requiredFields: requiredFields,
		vatRates:       vatRates,
		strictMode:     strictMode,
		now:            time.Now,
		logger:         logger,
	}
}

func (v *InvoiceValidator) Validate(rec entity.InvoiceRecord) (out entity.ValidationOutcome) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation.panic", "recovered", r)
			out = entity.ValidationOutcome{
				Valid:    false,
				Errors:   []string{fmt.Sprintf("Validation error: %v", r)},
				Warnings: []string{},
			}
		}
	}()

	errs := []string{}
	warns := []string{}

	errs = append(errs, v.checkRequiredFields(rec)...)
	errs = append(errs, v.checkNumericFields(rec)...)
	errs = append(errs, v.checkLineItems(rec)...)

	warns = append(warns, v.checkVATRate(rec)...)
	warns = append(warns, v.checkDate(rec)...)

	// Valid reflects the pre-promotion error set; promoted warnings extend
	// the returned error list only.
	valid := len(errs) == 0
	if v.strictMode {
		errs = append(errs, warns...)
		warns = []string{}
	}

	return entity.ValidationOutcome{Valid: valid, Errors: errs, Warnings: warns}
}

func (v *InvoiceValidator) checkRequiredFields(rec entity.InvoiceRecord) []string {
	var errs []string
	for _, field := range v.requiredFields {
		if !rec.Field(field) {
			errs = append(errs, fmt.Sprintf("Required field '%s' is missing", field))
		}
	}
	return errs
}

func (v *InvoiceValidator) checkNumericFields(rec entity.InvoiceRecord) []string {
	var errs []string
	amounts := []struct {
		name  string
		value *float64
	}{
		{constants.FieldTotal, rec.Total},
		{constants.FieldVAT, rec.VAT},
		{constants.FieldSubtotal, rec.Subtotal},
	}
	for _, a := range amounts {
		if a.value == nil {
			continue
		}
		switch {
		case math.IsNaN(*a.value) || math.IsInf(*a.value, 0):
			errs = append(errs, fmt.Sprintf("Field '%s' must be a number", a.name))
		case *a.value < 0:
			errs = append(errs, fmt.Sprintf("Field '%s' cannot be negative", a.name))
		}
	}

	if rec.Subtotal != nil && rec.VAT != nil && rec.Total != nil {
		expected := *rec.Subtotal + *rec.VAT
		if math.Abs(expected-*rec.Total) > amountTolerance {
			errs = append(errs, fmt.Sprintf(
				"Total mismatch: subtotal (%v) + VAT (%v) = %v, but total is %v",
				*rec.Subtotal, *rec.VAT, expected, *rec.Total))
		}
	}
	return errs
}

func (v *InvoiceValidator) checkLineItems(rec entity.InvoiceRecord) []string {
	var errs []string
	for i, item := range rec.LineItems {
		idx := i + 1
		if item.Description == "" {
			errs = append(errs, fmt.Sprintf("Line item %d: missing description", idx))
		}
		if item.Quantity == nil {
			errs = append(errs, fmt.Sprintf("Line item %d: missing quantity", idx))
		}
		if item.UnitPrice == nil {
			errs = append(errs, fmt.Sprintf("Line item %d: missing unit_price", idx))
		}
		if item.Total == nil {
			errs = append(errs, fmt.Sprintf("Line item %d: missing total", idx))
		}

		if item.Quantity != nil && item.UnitPrice != nil && item.Total != nil {
			expected := float64(*item.Quantity) * *item.UnitPrice
			if math.Abs(expected-*item.Total) > amountTolerance {
				errs = append(errs, fmt.Sprintf(
					"Line item %d: total mismatch (%d x %v = %v, but total is %v)",
					idx, *item.Quantity, *item.UnitPrice, expected, *item.Total))
			}
		}
	}
	return errs
}

func (v *InvoiceValidator) checkVATRate(rec entity.InvoiceRecord) []string {
	if rec.VAT == nil || rec.Subtotal == nil || *rec.Subtotal <= 0 {
		return nil
	}
	rate := *rec.VAT / *rec.Subtotal * 100
	for _, expected := range v.vatRates {
		if math.Abs(rate-expected) < rateTolerance {
			return nil
		}
	}
	return []string{fmt.Sprintf(
		"Unusual VAT rate: %.2f%%. Expected rates: %s", rate, formatRates(v.vatRates))}
}

func (v *InvoiceValidator) checkDate(rec entity.InvoiceRecord) []string {
	if rec.InvoiceDate == nil || *rec.InvoiceDate == "" {
		return nil
	}
	dateStr := *rec.InvoiceDate

	var parsed time.Time
	ok := false
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, dateStr); err == nil {
			parsed = t
			ok = true
			break
		}
	}
	if !ok {
		return []string{fmt.Sprintf("Could not parse invoice date: %s", dateStr)}
	}

	var warns []string
	now := v.now()
	if parsed.After(now) {
		warns = append(warns, fmt.Sprintf("Invoice date is in the future: %s", dateStr))
	}
	if now.Sub(parsed) > maxInvoiceAgeDays*24*time.Hour {
		warns = append(warns, fmt.Sprintf("Invoice date is very old: %s", dateStr))
	}
	return warns
}

func formatRates(rates []float64) string {
	parts := make([]string, len(rates))
	for i, r := range rates {
		parts[i] = fmt.Sprintf("%v%%", r)
	}
	return strings.Join(parts, ", ")
}
