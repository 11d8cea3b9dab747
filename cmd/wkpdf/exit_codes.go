package main

import (
	"errors"
	"os"

	wkpdf "github.com/alnah/go-wkpdf"
	"github.com/alnah/go-wkpdf/internal/assets"
	"github.com/alnah/go-wkpdf/internal/config"
	"github.com/alnah/go-wkpdf/internal/fileutil"
)

// Exit codes for the wkpdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Successful conversion
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied, temp/output failures
	ExitRenderer = 4 // wkhtmltopdf missing, failing, or timing out
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, wkpdf.ErrExecutableNotFound) ||
		errors.Is(err, wkpdf.ErrConversion) ||
		errors.Is(err, wkpdf.ErrTimeout) {
		return ExitRenderer
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, wkpdf.ErrTempFile) ||
		errors.Is(err, wkpdf.ErrWriteOutput) ||
		errors.Is(err, fileutil.ErrNotWritable) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoInputsFound) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrCreateOutputDir) {
		return ExitIO
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, wkpdf.ErrNoParts) ||
		errors.Is(err, wkpdf.ErrInvalidPageSize) ||
		errors.Is(err, wkpdf.ErrInvalidOrientation) ||
		errors.Is(err, wkpdf.ErrInvalidDPI) ||
		errors.Is(err, wkpdf.ErrInvalidZoom) ||
		errors.Is(err, wkpdf.ErrEmptyPageSource) ||
		errors.Is(err, assets.ErrStyleNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrMergeOutput) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	return ExitGeneral
}
