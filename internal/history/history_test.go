package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"invoice_number": "INV-1", "invoice_date": "15/01/2024", "supplier": "Acme Corp",
		 "subtotal": 100, "vat": 20, "total": 120,
		 "line_items": [], "confidence_scores": {}},
		{"invoice_number": null, "invoice_date": null, "supplier": null,
		 "subtotal": null, "vat": null, "total": 95.5,
		 "line_items": [], "confidence_scores": {}}
	]`), 0o644))

	records, err := NewJSONSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NotNil(t, records[0].Supplier)
	assert.Equal(t, "Acme Corp", *records[0].Supplier)
	require.NotNil(t, records[0].Total)
	assert.Equal(t, 120.0, *records[0].Total)

	assert.Nil(t, records[1].Supplier)
	require.NotNil(t, records[1].Total)
	assert.Equal(t, 95.5, *records[1].Total)
}

func TestJSONSource_MissingFile(t *testing.T) {
	_, err := NewJSONSource(filepath.Join(t.TempDir(), "nope.json")).Load(context.Background())
	assert.Error(t, err)
}

func TestJSONSource_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644))

	_, err := NewJSONSource(path).Load(context.Background())
	assert.Error(t, err)
}

func TestSQLiteSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	seedDB(t, path)

	records, err := NewSQLiteSource(path).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	require.NotNil(t, records[0].InvoiceNumber)
	assert.Equal(t, "INV-1", *records[0].InvoiceNumber)
	require.NotNil(t, records[0].Total)
	assert.Equal(t, 120.0, *records[0].Total)

	// NULL columns come back as absent fields
	assert.Nil(t, records[1].Supplier)
	assert.Nil(t, records[1].VAT)
	require.NotNil(t, records[1].Total)
	assert.Equal(t, 80.0, *records[1].Total)
}

func TestSQLiteSource_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE unrelated (id INTEGER)")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewSQLiteSource(path).Load(context.Background())
	assert.Error(t, err)
}

func seedDB(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE invoices (
		invoice_number TEXT,
		invoice_date   TEXT,
		supplier       TEXT,
		subtotal       REAL,
		vat            REAL,
		total          REAL
	)`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO invoices VALUES
		('INV-1', '15/01/2024', 'Acme Corp', 100, 20, 120),
		('INV-2', NULL, NULL, NULL, NULL, 80)`)
	require.NoError(t, err)
}
