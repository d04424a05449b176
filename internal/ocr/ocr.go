package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/common"
)

// Result is the text-acquisition outcome handed to the extraction engine.
// The pipeline treats OCR as a black box: it reads Text and RawData and
// short-circuits when Success is false. Extract never panics and never
// returns a Go error; failures are carried in-band.
type Result struct {
	Text       string
	RawData    map[string]any // opaque positional metadata, engine-specific
	Success    bool
	Error      string
	Engine     string
	Pages      int
	Confidence float32
	Duration   time.Duration
	Warnings   []string
}

// Engine is the OCR collaborator contract.
type Engine interface {
	Extract(ctx context.Context, path string) Result
}

// Extractor picks a strategy based on file extension: pdftotext (with a
// rasterize-and-tesseract fallback) for PDFs, tesseract for images, and a
// plain read for .txt sources.
type Extractor struct {
	cfg    common.OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg common.OCRConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, path string) Result {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("ocr extraction start", "path", path, "ext", ext)

	var res Result
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res = e.extractImage(ctx, path)
	case constants.TEXT:
		res = e.extractTextFile(path)
	default:
		e.logger.Error("unsupported ocr extension", "extension", ext)
		res = failure("auto", fmt.Sprintf("unsupported extension: %q", ext))
	}
	res.Duration = time.Since(start)
	return res
}

func (e *Extractor) extractTextFile(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return failure("text", err.Error())
	}
	text := string(data)
	return Result{
		Text:       text,
		RawData:    map[string]any{"source": "text-file"},
		Success:    true,
		Engine:     "text",
		Pages:      1,
		Confidence: heuristicConfidence(text),
	}
}

func failure(engine, msg string) Result {
	return Result{
		RawData: map[string]any{},
		Engine:  engine,
		Error:   msg,
	}
}
