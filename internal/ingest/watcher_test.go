package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectEvents(t *testing.T, events <-chan string, want int) map[string]struct{} {
	t.Helper()
	seen := map[string]struct{}{}
	deadline := time.After(10 * time.Second)
	for len(seen) < want {
		select {
		case p, ok := <-events:
			require.True(t, ok, "event channel closed after %d of %d paths", len(seen), want)
			seen[p] = struct{}{}
		case <-deadline:
			t.Fatalf("received %d of %d paths before timeout", len(seen), want)
		}
	}
	return seen
}

func TestStartWatcher_DebouncedBurst(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:    []string{dir},
		Debounce: time.Millisecond,
	})
	require.NoError(t, err)

	const n = 200
	for i := 0; i < n; i++ {
		touch(t, filepath.Join(dir, fmt.Sprintf("inv_%03d.pdf", i)))
	}

	seen := collectEvents(t, events, n)
	for i := 0; i < n; i++ {
		assert.Contains(t, seen, filepath.Join(dir, fmt.Sprintf("inv_%03d.pdf", i)))
	}

	cancel()
	for range events {
	}
}

func TestStartWatcher_NoDebounce(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{Roots: []string{dir}})
	require.NoError(t, err)

	touch(t, filepath.Join(dir, "scan.png"))
	touch(t, filepath.Join(dir, "notes.docx")) // unsupported, never emitted

	seen := collectEvents(t, events, 1)
	assert.Contains(t, seen, filepath.Join(dir, "scan.png"))
}

func TestStartWatcher_InitialScan(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "existing.pdf"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	touch(t, filepath.Join(dir, "nested", "old.txt"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, _, err := StartWatcher(ctx, WatchConfig{
		Roots:       []string{dir},
		InitialScan: true,
		Debounce:    time.Millisecond,
	})
	require.NoError(t, err)

	seen := collectEvents(t, events, 2)
	assert.Contains(t, seen, filepath.Join(dir, "existing.pdf"))
	assert.Contains(t, seen, filepath.Join(dir, "nested", "old.txt"))
}

func TestStartWatcher_NoRoots(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{})
	assert.Error(t, err)
}
