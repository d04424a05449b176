package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/anomaly"
	"github.com/finspect/invoice-pipeline/internal/common"
	"github.com/finspect/invoice-pipeline/internal/entity"
	"github.com/finspect/invoice-pipeline/internal/erp"
	"github.com/finspect/invoice-pipeline/internal/export"
	"github.com/finspect/invoice-pipeline/internal/extract"
	"github.com/finspect/invoice-pipeline/internal/ocr"
	"github.com/finspect/invoice-pipeline/internal/validation"
)

// Processor runs one invoice through OCR, field extraction, validation, the
// anomaly screen and export, in that order. An OCR failure short-circuits;
// any later stage failure is recorded in the stage report and fails the
// overall result, but the remaining stages still run.
type Processor struct {
	cfg       *common.Config
	engine    ocr.Engine
	extractor extract.FieldExtractor
	validator validation.Validator
	detector  anomaly.Detector // nil when the screen is disabled
	exporter  export.Exporter
	logger    *slog.Logger
}

// Options carries per-invoice inputs the config does not know about.
type Options struct {
	// OutputName overrides the export base name; defaults to the source
	// file name without its extension.
	OutputName string
	// History feeds the statistical anomaly screen.
	History []entity.InvoiceRecord
	// ERP, when set, receives the record after export. The adapter must
	// already be connected.
	ERP erp.Adapter
}

// NewProcessor wires the pipeline components from configuration. The config
// is validated up front so unknown component tags fail here, not mid-run.
func NewProcessor(cfg *common.Config, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = common.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	exKind, _ := constants.ParseExtractorKind(cfg.Extraction.Kind)
	extractor, err := extract.New(exKind, cfg.Extraction.ConfidenceThreshold, logger)
	if err != nil {
		return nil, err
	}

	var detector anomaly.Detector
	if cfg.Anomaly.Enabled {
		detKind, _ := constants.ParseDetectorKind(cfg.Anomaly.Kind)
		detector, err = anomaly.New(detKind, cfg.Anomaly.Threshold, logger)
		if err != nil {
			return nil, err
		}
	}

	formats := make([]constants.ExportFormat, 0, len(cfg.Export.Formats))
	for _, f := range cfg.Export.Formats {
		parsed, _ := constants.ParseExportFormat(f)
		formats = append(formats, parsed)
	}
	exporter, err := export.New(formats, cfg.Export.PrettyJSON, logger)
	if err != nil {
		return nil, err
	}

	return &Processor{
		cfg:       cfg,
		engine:    ocr.NewExtractor(cfg.OCR, logger),
		extractor: extractor,
		validator: validation.New(cfg.Validation.RequiredFields, cfg.Validation.AllowedVATRates, cfg.Validation.StrictMode, logger),
		detector:  detector,
		exporter:  exporter,
		logger:    logger,
	}, nil
}

// WithEngine swaps the OCR collaborator. Primarily for tests.
func (p *Processor) WithEngine(e ocr.Engine) *Processor {
	p.engine = e
	return p
}

// Process runs the full pipeline for one invoice file and always returns a
// populated result; it never panics out.
func (p *Processor) Process(ctx context.Context, path string, opts Options) (res Result) {
	res = Result{
		JobID:       uuid.New(),
		InvoicePath: path,
		Stages:      make(map[string]StageInfo),
	}
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline.panic", "path", path, "panic", r)
			res.Success = false
			res.Error = fmt.Sprintf("Processing error: %v", r)
		}
	}()

	p.logger.Info("pipeline.start", "job_id", res.JobID, "path", path)

	ocrRes := p.engine.Extract(ctx, path)
	res.Stages[constants.StageOCR] = StageInfo{
		Success: ocrRes.Success,
		Detail: map[string]any{
			"engine":     ocrRes.Engine,
			"pages":      ocrRes.Pages,
			"confidence": ocrRes.Confidence,
			"error":      ocrRes.Error,
		},
	}
	if !ocrRes.Success {
		p.logger.Error("pipeline.ocr.failed", "job_id", res.JobID, "path", path, "error", ocrRes.Error)
		res.Error = "OCR extraction failed"
		return res
	}

	rec := p.extractor.Extract(ocrRes.Text, ocrRes.RawData)
	res.Record = &rec
	res.Stages[constants.StageExtraction] = StageInfo{
		Success: true,
		Detail:  map[string]any{"fields_extracted": len(rec.ConfidenceScores)},
	}

	outcome := p.validator.Validate(rec)
	res.Validation = &outcome
	res.Stages[constants.StageValidation] = StageInfo{
		Success: outcome.Valid,
		Detail: map[string]any{
			"errors":   len(outcome.Errors),
			"warnings": len(outcome.Warnings),
		},
	}

	if p.detector != nil {
		report := p.detector.Detect(rec, opts.History)
		res.Anomalies = &report
		res.Stages[constants.StageAnomalyScreen] = StageInfo{
			Success: true,
			Detail: map[string]any{
				"has_anomalies": report.HasAnomalies,
				"count":         report.TotalAnomalies,
			},
		}
	}

	exportOK := true
	basePath, err := p.exportBase(path, opts.OutputName)
	if err == nil {
		err = p.exporter.Export(rec, basePath)
	}
	if err != nil {
		exportOK = false
		p.logger.Error("pipeline.export.failed", "job_id", res.JobID, "error", err)
	}
	res.Stages[constants.StageExport] = StageInfo{
		Success: exportOK,
		Detail:  map[string]any{"base_path": basePath},
	}

	erpOK := true
	if opts.ERP != nil {
		push := opts.ERP.PushInvoice(ctx, rec)
		erpOK = push.Success
		detail := map[string]any{"message": push.Message}
		if push.ERPReference != "" {
			detail["erp_reference"] = push.ERPReference
		}
		if push.Error != "" {
			detail["error"] = push.Error
		}
		res.Stages[constants.StageERPIntegration] = StageInfo{Success: erpOK, Detail: detail}
	}

	res.Success = outcome.Valid && exportOK && erpOK
	if !res.Success && res.Error == "" {
		res.Error = firstFailure(res.Stages)
	}
	p.logger.Info("pipeline.done", "job_id", res.JobID, "success", res.Success)
	return res
}

func (p *Processor) exportBase(inputPath, outputName string) (string, error) {
	if outputName == "" {
		base := filepath.Base(inputPath)
		outputName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	dir := p.cfg.Export.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", common.WrapError(err, "create output directory")
	}
	return filepath.Join(dir, outputName), nil
}

// firstFailure picks a stable error message from the stage report. Stages are
// inspected in pipeline order so the message names the earliest failure.
func firstFailure(stages map[string]StageInfo) string {
	order := []string{
		constants.StageOCR,
		constants.StageExtraction,
		constants.StageValidation,
		constants.StageAnomalyScreen,
		constants.StageExport,
		constants.StageERPIntegration,
	}
	for _, name := range order {
		if info, ok := stages[name]; ok && !info.Success {
			return fmt.Sprintf("stage %s failed", name)
		}
	}
	return ""
}
