// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotWritable indicates a directory rejected a probe write.
var ErrNotWritable = errors.New("directory not writable")

// InputKind classifies a conversion input by its extension.
type InputKind int

const (
	KindUnknown InputKind = iota
	KindHTML
	KindMarkdown
)

// String returns a short name for the kind.
func (k InputKind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// KindOf returns the input kind for path based on its extension (case-insensitive).
// URLs are always treated as HTML.
func KindOf(path string) InputKind {
	if IsURL(path) {
		return KindHTML
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return KindHTML
	case ".md", ".markdown":
		return KindMarkdown
	default:
		return KindUnknown
	}
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// CheckWritableDir verifies that files can be created in dir by writing and
// removing a probe file.
func CheckWritableDir(dir string) error {
	f, err := os.CreateTemp(dir, ".wkpdf-probe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "wkhtmltopdf" -> false (name, looked up in PATH)
//   - "./bin/wkhtmltopdf" -> true (relative path)
//   - "/usr/local/bin/wkhtmltopdf" -> true (absolute)
//   - "C:\tools\wkhtmltopdf.exe" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
