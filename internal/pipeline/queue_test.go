package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueue_ProcessesEnqueuedPaths(t *testing.T) {
	cfg := testConfig(t)
	proc := newTestProcessor(t, cfg, map[string]string{
		"a.pdf": goodInvoiceText,
		"b.pdf": goodInvoiceText,
	})

	q := NewQueue(proc, nil, WithWorkers(2), WithQueueSize(8))
	q.Enqueue("a.pdf")
	q.Enqueue("b.pdf")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	for _, name := range []string{"a.json", "b.json"} {
		_, err := os.Stat(filepath.Join(cfg.Export.OutputDir, name))
		assert.NoError(t, err, "missing %s", name)
	}
}

func TestQueue_EnqueueAfterShutdownIsIgnored(t *testing.T) {
	proc := newTestProcessor(t, testConfig(t), nil)
	q := NewQueue(proc, nil, WithWorkers(1))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	q.Enqueue("late.pdf") // must not panic on the closed channel
	q.Shutdown(ctx)       // idempotent
}
