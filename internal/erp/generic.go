package erp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/avast/retry-go/v4"

	"github.com/finspect/invoice-pipeline/internal/entity"
)

// pushAttempts bounds retries against a flaky ERP endpoint.
const pushAttempts = 3

// GenericAdapter targets ERP systems with a plain REST-style intake. SAP and
// Oracle adapters reuse its connection handling and swap the transform.
type GenericAdapter struct {
	name      string
	connected bool
	cfg       map[string]string
	transform func(rec entity.InvoiceRecord) map[string]any
	submit    func(ctx context.Context, payload map[string]any) error
	logger    *slog.Logger
}

func NewGenericAdapter(logger *slog.Logger) *GenericAdapter {
	a := newBaseAdapter("Generic", logger)
	return a
}

func newBaseAdapter(name string, logger *slog.Logger) *GenericAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	a := &GenericAdapter{name: name, logger: logger}
	a.transform = a.genericTransform
	a.submit = a.logSubmit
	return a
}

// Connect validates the connection configuration. url and api_key are
// required for every REST-style target.
func (a *GenericAdapter) Connect(cfg map[string]string) error {
	for _, field := range []string{"url", "api_key"} {
		if cfg[field] == "" {
			a.logger.Error("erp.connect.missing_config", "erp", a.name, "field", field)
			return fmt.Errorf("missing required config field: %s", field)
		}
	}
	a.cfg = cfg
	a.connected = true
	a.logger.Info("erp.connected", "erp", a.name)
	return nil
}

func (a *GenericAdapter) ValidateConnection() bool {
	return a.connected
}

func (a *GenericAdapter) TransformData(rec entity.InvoiceRecord) map[string]any {
	return a.transform(rec)
}

// genericTransform is the default field renaming; specific adapters build on
// top of it.
func (a *GenericAdapter) genericTransform(rec entity.InvoiceRecord) map[string]any {
	return map[string]any{
		"vendor":         strValue(rec.Supplier),
		"invoice_number": strValue(rec.InvoiceNumber),
		"invoice_date":   strValue(rec.InvoiceDate),
		"subtotal":       floatValue(rec.Subtotal),
		"tax_amount":     floatValue(rec.VAT),
		"total_amount":   floatValue(rec.Total),
		"line_items":     rec.LineItems,
		"metadata": map[string]any{
			"extraction_confidence": rec.ConfidenceScores,
		},
	}
}

func (a *GenericAdapter) PushInvoice(ctx context.Context, rec entity.InvoiceRecord) PushResult {
	if !a.connected {
		return PushResult{Error: "Not connected to ERP system"}
	}

	payload := a.transform(rec)
	invoiceID := strValue(rec.InvoiceNumber)

	err := retry.Do(
		func() error { return a.submit(ctx, payload) },
		retry.Context(ctx),
		retry.Attempts(pushAttempts),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			a.logger.Warn("erp.push.retry", "erp", a.name, "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		a.logger.Error("erp.push.failed", "erp", a.name, "invoice_id", invoiceID, "error", err)
		return PushResult{Error: err.Error()}
	}

	a.logger.Info("erp.push.ok", "erp", a.name, "invoice_id", invoiceID)
	return PushResult{
		Success:      true,
		Message:      fmt.Sprintf("Invoice pushed to %s", a.name),
		InvoiceID:    invoiceID,
		ERPReference: fmt.Sprintf("ERP-%s", invoiceID),
	}
}

// logSubmit stands in for the real API call; deployments replace it via
// WithSubmitter.
func (a *GenericAdapter) logSubmit(_ context.Context, payload map[string]any) error {
	a.logger.Info("erp.push.submit", "erp", a.name, "invoice_number", payload["invoice_number"])
	return nil
}

// WithSubmitter replaces the transport used by PushInvoice. Tests use this
// to simulate flaky endpoints.
func (a *GenericAdapter) WithSubmitter(submit func(ctx context.Context, payload map[string]any) error) *GenericAdapter {
	if submit != nil {
		a.submit = submit
	}
	return a
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
