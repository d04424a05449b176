package constants

// AnomalyType is the canonical classification for a single anomaly finding.
type AnomalyType string

const (
	AnomalyStatisticalOutlier   AnomalyType = "statistical_outlier"
	AnomalySuspiciousPattern    AnomalyType = "suspicious_pattern"
	AnomalyDuplicateItems       AnomalyType = "duplicate_items"
	AnomalyMissingCriticalField AnomalyType = "missing_critical_field"
	AnomalyUnusualRate          AnomalyType = "unusual_rate"
)

// Severity grades an anomaly finding. Findings are always advisory; severity
// only orders follow-up, it never blocks the pipeline.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)
