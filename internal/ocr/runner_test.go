package ocr

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finspect/invoice-pipeline/internal/common"
)

func TestNewExtractor_RunnerCarriesLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	e := NewExtractor(common.OCRConfig{}, logger)

	r, ok := e.runner.(execRunner)
	require.True(t, ok)
	assert.Same(t, logger, r.logger)
}

func TestExecRunner_FailureLogsThroughOwnLogger(t *testing.T) {
	var buf bytes.Buffer
	r := execRunner{logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	_, _, err := r.Run(context.Background(), "no-such-binary-for-this-test")
	require.Error(t, err)

	assert.Contains(t, buf.String(), "ocr.exec.failed")
	assert.Contains(t, buf.String(), "no-such-binary-for-this-test")
}
