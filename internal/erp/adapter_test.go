package erp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

func pushableRecord() entity.InvoiceRecord {
	rec := entity.NewInvoiceRecord()
	rec.InvoiceNumber = entity.StrPtr("INV-2024-001")
	rec.InvoiceDate = entity.StrPtr("15/01/2024")
	rec.Supplier = entity.StrPtr("Acme Corp")
	rec.Subtotal = entity.FloatPtr(100)
	rec.VAT = entity.FloatPtr(20)
	rec.Total = entity.FloatPtr(120)
	return rec
}

func validConfig() map[string]string {
	return map[string]string{"url": "https://erp.example.com", "api_key": "secret"}
}

func TestConnect_RequiresURLAndKey(t *testing.T) {
	a := NewGenericAdapter(nil)

	err := a.Connect(map[string]string{"url": "https://erp.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
	assert.False(t, a.ValidateConnection())

	require.NoError(t, a.Connect(validConfig()))
	assert.True(t, a.ValidateConnection())
}

func TestPushInvoice_NotConnected(t *testing.T) {
	a := NewGenericAdapter(nil)

	res := a.PushInvoice(context.Background(), pushableRecord())

	assert.False(t, res.Success)
	assert.Equal(t, "Not connected to ERP system", res.Error)
}

func TestPushInvoice_Success(t *testing.T) {
	a := NewGenericAdapter(nil)
	require.NoError(t, a.Connect(validConfig()))

	res := a.PushInvoice(context.Background(), pushableRecord())

	assert.True(t, res.Success)
	assert.Equal(t, "INV-2024-001", res.InvoiceID)
	assert.Equal(t, "ERP-INV-2024-001", res.ERPReference)
}

func TestPushInvoice_RetriesTransientFailures(t *testing.T) {
	a := NewGenericAdapter(nil)
	require.NoError(t, a.Connect(validConfig()))

	calls := 0
	a.WithSubmitter(func(ctx context.Context, payload map[string]any) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	res := a.PushInvoice(context.Background(), pushableRecord())

	assert.True(t, res.Success)
	assert.Equal(t, 3, calls)
}

func TestPushInvoice_GivesUpAfterAttempts(t *testing.T) {
	a := NewGenericAdapter(nil)
	require.NoError(t, a.Connect(validConfig()))

	calls := 0
	a.WithSubmitter(func(ctx context.Context, payload map[string]any) error {
		calls++
		return errors.New("endpoint down")
	})

	res := a.PushInvoice(context.Background(), pushableRecord())

	assert.False(t, res.Success)
	assert.Equal(t, "endpoint down", res.Error)
	assert.Equal(t, 3, calls)
}

func TestGenericTransform(t *testing.T) {
	a := NewGenericAdapter(nil)
	payload := a.TransformData(pushableRecord())

	assert.Equal(t, "Acme Corp", payload["vendor"])
	assert.Equal(t, "INV-2024-001", payload["invoice_number"])
	assert.Equal(t, 120.0, payload["total_amount"])
	assert.Equal(t, 20.0, payload["tax_amount"])

	meta, ok := payload["metadata"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, meta, "extraction_confidence")
}

func TestGenericTransform_AbsentFieldsBecomeZeroValues(t *testing.T) {
	a := NewGenericAdapter(nil)
	payload := a.TransformData(entity.NewInvoiceRecord())

	assert.Equal(t, "", payload["vendor"])
	assert.Equal(t, 0.0, payload["total_amount"])
}

func TestSAPTransform(t *testing.T) {
	a := NewSAPAdapter(nil)
	payload := a.TransformData(pushableRecord())

	assert.Equal(t, "Acme Corp", payload["LIFNR"])
	assert.Equal(t, "INV-2024-001", payload["XBLNR"])
	assert.Equal(t, 120.0, payload["WRBTR"])
	assert.Equal(t, "USD", payload["WAERS"])
	assert.Equal(t, "ZINV", payload["BSART"])
}

func TestOracleTransform(t *testing.T) {
	a := NewOracleAdapter(nil)
	payload := a.TransformData(pushableRecord())

	assert.Equal(t, "Acme Corp", payload["vendor_id"])
	assert.Equal(t, "INV-2024-001", payload["invoice_num"])
	assert.Equal(t, 120.0, payload["invoice_amount"])
	assert.Equal(t, "STANDARD", payload["invoice_type_lookup_code"])
}

func TestSAPAdapter_PushUsesSAPPayload(t *testing.T) {
	a := NewSAPAdapter(nil)
	require.NoError(t, a.Connect(validConfig()))

	var seen map[string]any
	a.WithSubmitter(func(ctx context.Context, payload map[string]any) error {
		seen = payload
		return nil
	})

	res := a.PushInvoice(context.Background(), pushableRecord())
	require.True(t, res.Success)
	assert.Contains(t, seen, "BUKRS")
}

func TestNew_SelectsAdapter(t *testing.T) {
	kind, err := constants.ParseERPKind("sap")
	require.NoError(t, err)
	a, err := New(kind, nil)
	require.NoError(t, err)
	assert.IsType(t, &SAPAdapter{}, a)

	_, err = constants.ParseERPKind("netsuite")
	assert.Error(t, err)
}

func TestManager_RegisterAndList(t *testing.T) {
	m := NewManager(nil)
	m.Register("generic", NewGenericAdapter(nil))
	m.Register("sap", NewSAPAdapter(nil))

	assert.NotNil(t, m.Get("sap"))
	assert.Nil(t, m.Get("oracle"))
	assert.ElementsMatch(t, []string{"generic", "sap"}, m.List())
}
