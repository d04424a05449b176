// Package erp pushes finalized invoice records to ERP systems. Adapters own
// their field renaming; the pipeline treats them as opaque sinks.
package erp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// PushResult reports one push attempt.
type PushResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	InvoiceID    string `json:"invoice_id,omitempty"`
	ERPReference string `json:"erp_reference,omitempty"`
	Error        string `json:"error,omitempty"`
}

// Adapter is the ERP collaborator contract.
type Adapter interface {
	// Connect validates the connection configuration and establishes the
	// session.
	Connect(cfg map[string]string) error
	// ValidateConnection reports whether the adapter is connected.
	ValidateConnection() bool
	// TransformData renames record fields into the target system's shape.
	TransformData(rec entity.InvoiceRecord) map[string]any
	// PushInvoice transforms and submits one record. Failures are reported
	// in-band; PushInvoice never panics.
	PushInvoice(ctx context.Context, rec entity.InvoiceRecord) PushResult
}

// New builds the adapter selected by kind.
func New(kind constants.ERPKind, logger *slog.Logger) (Adapter, error) {
	switch kind {
	case constants.ERPGeneric:
		return NewGenericAdapter(logger), nil
	case constants.ERPSAP:
		return NewSAPAdapter(logger), nil
	case constants.ERPOracle:
		return NewOracleAdapter(logger), nil
	default:
		return nil, fmt.Errorf("unknown ERP kind: %q", kind)
	}
}

// Manager is a registry for configured adapters keyed by name.
type Manager struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	logger   *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{adapters: map[string]Adapter{}, logger: logger}
}

// Register stores an adapter under name, replacing any previous entry.
func (m *Manager) Register(name string, adapter Adapter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adapters[name] = adapter
	m.logger.Info("erp.adapter.registered", "name", name)
}

// Get returns the adapter registered under name, or nil.
func (m *Manager) Get(name string) Adapter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.adapters[name]
}

// List returns the registered adapter names.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.adapters))
	for name := range m.adapters {
		names = append(names, name)
	}
	return names
}
