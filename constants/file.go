package constants

import (
	"path/filepath"
	"strings"
)

// SourceFormat is the coarse input format the OCR layer switches on.
type SourceFormat string

const (
	PDF   SourceFormat = "PDF"
	IMAGE SourceFormat = "IMAGE"
	TEXT  SourceFormat = "TEXT"
)

// AllowedExtensions holds the supported invoice file extensions for
// directory discovery (lowercase, without '.').
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tiff": {},
	"tif":  {},
	"bmp":  {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its source format.
// Returns "" for unsupported extensions.
func MapExtToFormat(ext string) SourceFormat {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg", "tiff", "tif", "bmp":
		return IMAGE
	case "txt":
		return TEXT
	default:
		return ""
	}
}

// IsSupportedFile reports whether the path has a supported invoice extension.
func IsSupportedFile(path string) bool {
	_, ok := AllowedExtensions[NormalizeExt(filepath.Ext(path))]
	return ok
}
