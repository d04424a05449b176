package ocr

import (
	"context"
	"fmt"
	"strconv"
)

func (e *Extractor) extractImage(ctx context.Context, path string) Result {
	args := []string{path, "stdout", "-l", e.cfg.Language, "--dpi", strconv.Itoa(e.cfg.DPI)}
	out, stderr, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return failure("image-ocr", fmt.Sprintf("tesseract: %v: %s", err, truncate(string(stderr), 512)))
	}
	text := string(out)
	return Result{
		Text:       text,
		RawData:    map[string]any{"source": "image-ocr", "lang": e.cfg.Language},
		Success:    true,
		Engine:     "image-ocr",
		Pages:      1,
		Confidence: heuristicConfidence(text),
	}
}
