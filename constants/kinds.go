package constants

import (
	"fmt"
	"strings"
)

// Component kinds replace the reference design's string-tag factories with
// enumerated values validated at construction time.

// ExtractorKind selects a field-extractor implementation.
type ExtractorKind string

const (
	ExtractorPattern ExtractorKind = "pattern_based"
	ExtractorEntity  ExtractorKind = "entity"
)

// ParseExtractorKind normalizes and validates an extractor tag.
func ParseExtractorKind(s string) (ExtractorKind, error) {
	switch k := ExtractorKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ExtractorPattern, ExtractorEntity:
		return k, nil
	default:
		return "", fmt.Errorf("unknown extractor kind: %q", s)
	}
}

// DetectorKind selects an anomaly-detector implementation.
type DetectorKind string

const (
	DetectorStatistical DetectorKind = "statistical"
	DetectorRuleBased   DetectorKind = "rule_based"
)

// ParseDetectorKind normalizes and validates a detector tag.
func ParseDetectorKind(s string) (DetectorKind, error) {
	switch k := DetectorKind(strings.ToLower(strings.TrimSpace(s))); k {
	case DetectorStatistical, DetectorRuleBased:
		return k, nil
	default:
		return "", fmt.Errorf("unknown detector kind: %q", s)
	}
}

// ExportFormat selects an exporter implementation.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// ParseExportFormat normalizes and validates an export format tag.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format: %q", s)
	}
}

// ERPKind selects an ERP adapter implementation.
type ERPKind string

const (
	ERPGeneric ERPKind = "generic"
	ERPSAP     ERPKind = "sap"
	ERPOracle  ERPKind = "oracle"
)

// ParseERPKind normalizes and validates an ERP adapter tag.
func ParseERPKind(s string) (ERPKind, error) {
	switch k := ERPKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ERPGeneric, ERPSAP, ERPOracle:
		return k, nil
	default:
		return "", fmt.Errorf("unknown ERP kind: %q", s)
	}
}
