package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "pattern_based", cfg.Extraction.Kind)
	assert.Equal(t, []string{"supplier", "total", "invoice_date"}, cfg.Validation.RequiredFields)
	assert.Equal(t, []float64{0, 5, 10, 20}, cfg.Validation.AllowedVATRates)
	assert.False(t, cfg.Validation.StrictMode)
	assert.True(t, cfg.Anomaly.Enabled)
	assert.Equal(t, []string{"json", "csv"}, cfg.Export.Formats)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("EXTRACTOR_KIND", "entity")
	t.Setenv("STRICT_MODE", "true")
	t.Setenv("REQUIRED_FIELDS", "total, invoice_number")
	t.Setenv("ALLOWED_VAT_RATES", "0,7.7,19")
	t.Setenv("EXPORT_FORMATS", "xlsx")
	t.Setenv("OCR_DPI", "150")

	cfg := LoadConfig()

	assert.Equal(t, "entity", cfg.Extraction.Kind)
	assert.True(t, cfg.Validation.StrictMode)
	assert.Equal(t, []string{"total", "invoice_number"}, cfg.Validation.RequiredFields)
	assert.Equal(t, []float64{0, 7.7, 19}, cfg.Validation.AllowedVATRates)
	assert.Equal(t, []string{"xlsx"}, cfg.Export.Formats)
	assert.Equal(t, 150, cfg.OCR.DPI)
}

func TestLoadConfig_IgnoresMalformedEnvValues(t *testing.T) {
	t.Setenv("OCR_DPI", "not-a-number")
	t.Setenv("STRICT_MODE", "maybe")

	cfg := LoadConfig()

	assert.Equal(t, 300, cfg.OCR.DPI)
	assert.False(t, cfg.Validation.StrictMode)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
extraction:
  kind: entity
validation:
  strict_mode: true
  allowed_vat_rates: [0, 19]
export:
  formats: [json, xlsx]
  output_dir: /tmp/invoices
`), 0o644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "entity", cfg.Extraction.Kind)
	assert.True(t, cfg.Validation.StrictMode)
	assert.Equal(t, []float64{0, 19}, cfg.Validation.AllowedVATRates)
	assert.Equal(t, []string{"json", "xlsx"}, cfg.Export.Formats)
	assert.Equal(t, "/tmp/invoices", cfg.Export.OutputDir)
	// untouched sections keep their defaults
	assert.Equal(t, 300, cfg.OCR.DPI)
}

func TestLoadConfigFile_MissingFile(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown extractor", func(c *Config) { c.Extraction.Kind = "neural" }},
		{"unknown detector", func(c *Config) { c.Anomaly.Kind = "bayesian" }},
		{"unknown format", func(c *Config) { c.Export.Formats = []string{"parquet"} }},
		{"no formats", func(c *Config) { c.Export.Formats = nil }},
		{"threshold out of range", func(c *Config) { c.Extraction.ConfidenceThreshold = 1.5 }},
		{"vat rate out of range", func(c *Config) { c.Validation.AllowedVATRates = []float64{120} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfigValidate_DetectorIgnoredWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Anomaly.Enabled = false
	cfg.Anomaly.Kind = "bayesian"

	assert.NoError(t, cfg.Validate())
}
