package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/common"
)

// FindInvoices lists the supported invoice files directly under dir, sorted
// by name. Subdirectories are not descended into; batch runs over nested
// trees go through the watcher's initial scan instead.
func FindInvoices(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("input directory is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, common.WrapError(err, "read input directory")
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || isHidden(e.Name()) {
			continue
		}
		if constants.IsSupportedFile(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
