package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestField_Presence(t *testing.T) {
	rec := NewInvoiceRecord()
	assert.False(t, rec.Field("supplier"))
	assert.False(t, rec.Field("total"))
	assert.False(t, rec.Field("line_items"))
	assert.False(t, rec.Field("unknown_field"))

	rec.SetString("supplier", "Acme Corp")
	rec.SetAmount("total", 120)
	rec.LineItems = append(rec.LineItems, LineItem{Description: "Widget A"})

	assert.True(t, rec.Field("supplier"))
	assert.True(t, rec.Field("total"))
	assert.True(t, rec.Field("line_items"))
}

func TestField_EmptyStringCountsAsAbsent(t *testing.T) {
	rec := NewInvoiceRecord()
	rec.Supplier = StrPtr("")
	assert.False(t, rec.Field("supplier"))
}

func TestField_ZeroAmountCountsAsPresent(t *testing.T) {
	rec := NewInvoiceRecord()
	rec.SetAmount("vat", 0)
	assert.True(t, rec.Field("vat"))
}
