package wkpdf

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for library operations.
var (
	// Configuration errors.
	ErrExecutableNotFound = errors.New("wkhtmltopdf executable not found")

	// Execution errors.
	ErrConversion         = errors.New("wkhtmltopdf conversion failed")
	ErrTimeout            = errors.New("wkhtmltopdf conversion timed out")
	ErrConversionInFlight = errors.New("conversion already in progress for this document")

	// I/O errors.
	ErrTempFile    = errors.New("failed to write temp file")
	ErrWriteOutput = errors.New("failed to write PDF output")

	// Settings validation errors.
	ErrNoParts            = errors.New("document has no pages")
	ErrInvalidPageSize    = errors.New("invalid page size")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidDPI         = errors.New("invalid dpi")
	ErrInvalidZoom        = errors.New("invalid zoom")
	ErrEmptyPageSource    = errors.New("page has no content")
)

// ExecError reports a renderer process that exited with a non-zero status.
// Its message is the renderer's standard error, verbatim apart from
// surrounding whitespace, so a malformed flag or missing input file can be
// diagnosed from the error alone.
type ExecError struct {
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("wkhtmltopdf exited with status %d", e.ExitCode)
	}
	return msg
}

// Is reports ErrConversion so callers can match any renderer failure
// with errors.Is without type assertions.
func (e *ExecError) Is(target error) bool {
	return target == ErrConversion
}
