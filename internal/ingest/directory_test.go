package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestFindInvoices(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.pdf"))
	touch(t, filepath.Join(dir, "a.txt"))
	touch(t, filepath.Join(dir, "scan.PNG"))
	touch(t, filepath.Join(dir, "notes.docx"))
	touch(t, filepath.Join(dir, ".hidden.pdf"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	touch(t, filepath.Join(dir, "nested", "c.pdf"))

	paths, err := FindInvoices(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "scan.PNG"),
	}, paths, "sorted, top-level, supported extensions only")
}

func TestFindInvoices_EmptyDirIsNotAnError(t *testing.T) {
	paths, err := FindInvoices(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestFindInvoices_BadInput(t *testing.T) {
	_, err := FindInvoices("  ")
	assert.Error(t, err)

	_, err = FindInvoices(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
