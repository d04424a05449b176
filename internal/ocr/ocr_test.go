package ocr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finspect/invoice-pipeline/internal/common"
)

// stubRunner replays canned command outcomes keyed by binary name.
type stubRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   []string
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, name)
	if err := r.errs[name]; err != nil {
		return nil, []byte("boom"), err
	}
	return []byte(r.outputs[name]), nil, nil
}

func TestExtract_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.txt")
	require.NoError(t, os.WriteFile(path, []byte("Total: $120.00\nDate: 15/01/2024\n"), 0o644))

	e := NewExtractor(common.OCRConfig{}, nil)
	res := e.Extract(context.Background(), path)

	assert.True(t, res.Success)
	assert.Equal(t, "text", res.Engine)
	assert.Equal(t, 1, res.Pages)
	assert.Contains(t, res.Text, "Total: $120.00")
	assert.Greater(t, res.Confidence, float32(0.2), "dates and currency boost confidence")
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	e := NewExtractor(common.OCRConfig{}, nil)
	res := e.Extract(context.Background(), "invoice.docx")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unsupported extension")
}

func TestExtract_MissingTextFile(t *testing.T) {
	e := NewExtractor(common.OCRConfig{}, nil)
	res := e.Extract(context.Background(), filepath.Join(t.TempDir(), "gone.txt"))

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestExtractPDF_TextLayer(t *testing.T) {
	e := NewExtractor(common.OCRConfig{}, nil)
	e.runner = &stubRunner{outputs: map[string]string{
		"pdftotext": "Invoice #: INV-1\nTotal: $120.00\n\fpage two\n",
	}}

	res := e.Extract(context.Background(), "invoice.pdf")

	assert.True(t, res.Success)
	assert.Equal(t, "pdf-text", res.Engine)
	assert.Equal(t, 2, res.Pages, "form feeds delimit pages")
	assert.Contains(t, res.Text, "INV-1")
}

func TestExtractPDF_FallsBackToRasterize(t *testing.T) {
	runner := &stubRunner{
		outputs: map[string]string{"pdftoppm": ""},
		errs:    map[string]error{"pdftotext": errors.New("exit status 1")},
	}
	e := NewExtractor(common.OCRConfig{}, nil)
	e.runner = runner

	res := e.Extract(context.Background(), "scan.pdf")

	// no pages materialize under the stub, so the fallback reports failure,
	// but the pdftotext error must be carried as a warning
	assert.False(t, res.Success)
	assert.Contains(t, runner.calls, "pdftoppm")
	require.NotEmpty(t, res.Warnings)
	assert.Contains(t, res.Warnings[0], "pdftotext")
}

func TestExtractImage_Tesseract(t *testing.T) {
	e := NewExtractor(common.OCRConfig{Language: "deu", DPI: 150}, nil)
	e.runner = &stubRunner{outputs: map[string]string{
		"tesseract": "Rechnung Total: $99.00\n",
	}}

	res := e.Extract(context.Background(), "scan.png")

	assert.True(t, res.Success)
	assert.Equal(t, "image-ocr", res.Engine)
	assert.Contains(t, res.Text, "Rechnung")
	assert.Equal(t, "deu", res.RawData["lang"])
}

func TestExtractImage_TesseractFailure(t *testing.T) {
	e := NewExtractor(common.OCRConfig{}, nil)
	e.runner = &stubRunner{errs: map[string]error{"tesseract": errors.New("exit status 1")}}

	res := e.Extract(context.Background(), "scan.jpg")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "tesseract")
}

func TestHeuristicConfidence(t *testing.T) {
	assert.InDelta(t, 0.2, heuristicConfidence("short"), 1e-6)

	rich := "Invoice dated 15/01/2024 for $1,234.56 including VAT. " +
		"This body pads the text well past the length bonus threshold for scoring."
	assert.InDelta(t, 0.8, heuristicConfidence(rich), 1e-6)
}
