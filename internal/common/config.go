package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/finspect/invoice-pipeline/constants"
)

// Config holds all pipeline configuration
type Config struct {
	OCR        OCRConfig        `yaml:"ocr"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Validation ValidationConfig `yaml:"validation"`
	Anomaly    AnomalyConfig    `yaml:"anomaly_detection"`
	Export     ExportConfig     `yaml:"export"`
}

// OCRConfig holds text-acquisition configuration
type OCRConfig struct {
	Pdftotext string `yaml:"pdftotext"` // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string `yaml:"pdftoppm"`  // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string `yaml:"tesseract"` // binary name or absolute path; if empty -> "tesseract"
	Language  string `yaml:"language"`
	DPI       int    `yaml:"dpi"`
}

// ExtractionConfig holds field-extraction configuration
type ExtractionConfig struct {
	Kind string `yaml:"kind"` // pattern_based | entity
	// ConfidenceThreshold is accepted for forward compatibility; the pattern
	// engine's fixed-confidence policy does not enforce it today.
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
}

// ValidationConfig holds consistency-validation configuration
type ValidationConfig struct {
	RequiredFields  []string  `yaml:"required_fields"`
	AllowedVATRates []float64 `yaml:"allowed_vat_rates"`
	StrictMode      bool      `yaml:"strict_mode"`
}

// AnomalyConfig holds anomaly-screen configuration
type AnomalyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Kind    string `yaml:"kind"` // statistical | rule_based
	// Threshold gates which detector is built; the documented statistical
	// cutoffs (z-score 3.0, IQR 1.5) are fixed.
	Threshold float64 `yaml:"threshold"`
}

// ExportConfig holds export-sink configuration
type ExportConfig struct {
	Formats    []string `yaml:"formats"` // json | csv | xlsx
	OutputDir  string   `yaml:"output_dir"`
	PrettyJSON bool     `yaml:"pretty_json"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Language: "eng",
			DPI:      300,
		},
		Extraction: ExtractionConfig{
			Kind:                string(constants.ExtractorPattern),
			ConfidenceThreshold: 0.7,
		},
		Validation: ValidationConfig{
			RequiredFields:  append([]string(nil), constants.DefaultRequiredFields...),
			AllowedVATRates: append([]float64(nil), constants.DefaultVATRates...),
		},
		Anomaly: AnomalyConfig{
			Enabled:   true,
			Kind:      string(constants.DetectorStatistical),
			Threshold: 0.8,
		},
		Export: ExportConfig{
			Formats:    []string{string(constants.FormatJSON), string(constants.FormatCSV)},
			OutputDir:  "output",
			PrettyJSON: true,
		},
	}
}

// LoadConfig loads configuration from environment variables on top of the
// defaults.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.OCR.Pdftotext = getEnv("PDFTOTEXT_BIN", cfg.OCR.Pdftotext)
	cfg.OCR.Pdftoppm = getEnv("PDFTOPPM_BIN", cfg.OCR.Pdftoppm)
	cfg.OCR.Tesseract = getEnv("TESSERACT_BIN", cfg.OCR.Tesseract)
	cfg.OCR.Language = getEnv("OCR_LANGUAGE", cfg.OCR.Language)
	cfg.OCR.DPI = getEnvAsInt("OCR_DPI", cfg.OCR.DPI)

	cfg.Extraction.Kind = getEnv("EXTRACTOR_KIND", cfg.Extraction.Kind)
	cfg.Extraction.ConfidenceThreshold = getEnvAsFloat("CONFIDENCE_THRESHOLD", cfg.Extraction.ConfidenceThreshold)

	cfg.Validation.RequiredFields = getEnvAsSlice("REQUIRED_FIELDS", cfg.Validation.RequiredFields)
	cfg.Validation.AllowedVATRates = getEnvAsFloats("ALLOWED_VAT_RATES", cfg.Validation.AllowedVATRates)
	cfg.Validation.StrictMode = getEnvAsBool("STRICT_MODE", cfg.Validation.StrictMode)

	cfg.Anomaly.Enabled = getEnvAsBool("ANOMALY_ENABLED", cfg.Anomaly.Enabled)
	cfg.Anomaly.Kind = getEnv("ANOMALY_DETECTOR", cfg.Anomaly.Kind)
	cfg.Anomaly.Threshold = getEnvAsFloat("ANOMALY_THRESHOLD", cfg.Anomaly.Threshold)

	cfg.Export.Formats = getEnvAsSlice("EXPORT_FORMATS", cfg.Export.Formats)
	cfg.Export.OutputDir = getEnv("EXPORT_OUTPUT_DIR", cfg.Export.OutputDir)
	cfg.Export.PrettyJSON = getEnvAsBool("EXPORT_PRETTY_JSON", cfg.Export.PrettyJSON)
	return cfg
}

// LoadConfigFile reads a YAML config file over the defaults. Environment
// variables are not consulted; callers combine with LoadConfig as needed.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapError(err, "read config file")
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, WrapError(err, "parse config file")
	}
	return cfg, nil
}

// Validate rejects unknown component tags and out-of-range values up front,
// so misconfiguration fails at construction rather than mid-pipeline.
func (c *Config) Validate() error {
	if _, err := constants.ParseExtractorKind(c.Extraction.Kind); err != nil {
		return NewAppError("CONFIG_ERROR", err.Error(), ErrInvalidInput)
	}
	if c.Anomaly.Enabled {
		if _, err := constants.ParseDetectorKind(c.Anomaly.Kind); err != nil {
			return NewAppError("CONFIG_ERROR", err.Error(), ErrInvalidInput)
		}
	}
	for _, f := range c.Export.Formats {
		if _, err := constants.ParseExportFormat(f); err != nil {
			return NewAppError("CONFIG_ERROR", err.Error(), ErrInvalidInput)
		}
	}
	if len(c.Export.Formats) == 0 {
		return NewAppError("CONFIG_ERROR", "at least one export format is required", ErrInvalidInput)
	}
	if c.Extraction.ConfidenceThreshold < 0 || c.Extraction.ConfidenceThreshold > 1 {
		return NewAppError("CONFIG_ERROR",
			fmt.Sprintf("confidence_threshold must be in [0,1], got %v", c.Extraction.ConfidenceThreshold),
			ErrInvalidInput)
	}
	for _, r := range c.Validation.AllowedVATRates {
		if r < 0 || r > 100 {
			return NewAppError("CONFIG_ERROR",
				fmt.Sprintf("allowed VAT rate out of range: %v", r), ErrInvalidInput)
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func getEnvAsFloats(key string, defaultValue []float64) []float64 {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]float64, 0, len(parts))
		for _, p := range parts {
			if f, err := strconv.ParseFloat(strings.TrimSpace(p), 64); err == nil {
				out = append(out, f)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
