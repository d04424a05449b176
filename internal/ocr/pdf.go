package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// extractPDF prefers the embedded text layer; scanned PDFs fall back to
// rasterizing with pdftoppm and running tesseract per page.
func (e *Extractor) extractPDF(ctx context.Context, path string) Result {
	out, _, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", path, "-")
	if err == nil && strings.TrimSpace(string(out)) != "" {
		text := string(out)
		return Result{
			Text:       text,
			RawData:    map[string]any{"source": "pdf-text"},
			Success:    true,
			Engine:     "pdf-text",
			Pages:      strings.Count(text, "\f") + 1,
			Confidence: heuristicConfidence(text),
		}
	}

	var warns []string
	if err != nil {
		warns = append(warns, fmt.Sprintf("pdftotext: %v", err))
	} else {
		warns = append(warns, "pdf has no text layer, rasterizing")
	}
	res := e.rasterizeAndOCR(ctx, path)
	res.Warnings = append(warns, res.Warnings...)
	return res
}

func (e *Extractor) rasterizeAndOCR(ctx context.Context, path string) Result {
	tmpDir, err := os.MkdirTemp("", "invoice-ocr-*")
	if err != nil {
		return failure("pdf-ocr", fmt.Sprintf("mkdir temp: %v", err))
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	_, stderr, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return failure("pdf-ocr", fmt.Sprintf("pdftoppm: %v: %s", err, truncate(string(stderr), 512)))
	}

	pages, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(pages) == 0 {
		return failure("pdf-ocr", "pdftoppm produced no pages")
	}
	sort.Strings(pages)

	var parts []string
	var warns []string
	for i, page := range pages {
		pr := e.extractImage(ctx, page)
		if !pr.Success {
			warns = append(warns, fmt.Sprintf("page %d: %s", i+1, pr.Error))
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Page %d ---\n%s", i+1, pr.Text))
	}
	if len(parts) == 0 {
		return Result{
			RawData:  map[string]any{},
			Engine:   "pdf-ocr",
			Error:    "ocr produced no text on any page",
			Pages:    len(pages),
			Warnings: warns,
		}
	}

	text := strings.Join(parts, "\n\n")
	return Result{
		Text:       text,
		RawData:    map[string]any{"source": "pdf-ocr", "dpi": e.cfg.DPI},
		Success:    true,
		Engine:     "pdf-ocr",
		Pages:      len(pages),
		Confidence: heuristicConfidence(text),
		Warnings:   warns,
	}
}
