package constants

// Stage names the pipeline records outcomes under. Stable values: these exact
// strings appear in stage reports and exported results.
const (
	StageOCR            = "ocr"
	StageExtraction     = "extraction"
	StageValidation     = "validation"
	StageAnomalyScreen  = "anomaly_detection"
	StageExport         = "export"
	StageERPIntegration = "erp_integration"
)
