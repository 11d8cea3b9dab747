// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-wkpdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForExecutableNotFound returns hints for a missing wkhtmltopdf binary.
func ForExecutableNotFound() string {
	var hints []string

	if IsInContainer() {
		hints = append(hints, "install wkhtmltopdf in the image (e.g. apt-get install -y wkhtmltopdf)")
	} else {
		hints = append(hints, "install wkhtmltopdf from https://wkhtmltopdf.org/downloads.html")
	}

	if os.Getenv("WKPDF_BIN") == "" {
		hints = append(hints, "set WKPDF_BIN or --executable to the binary path")
	}

	return formatHints(hints)
}

// ForConversion inspects the renderer's diagnostic text and suggests a fix
// for the failures users hit most often. Returns "" when nothing matches.
func ForConversion(stderr string) string {
	lower := strings.ToLower(stderr)

	switch {
	case strings.Contains(lower, "blocked access to file"),
		strings.Contains(lower, "contentnotfounderror"):
		return format("use --enable-local-file-access for local images and stylesheets")
	case strings.Contains(lower, "cannot connect to x server"):
		return format("use a wkhtmltopdf build with patched Qt, or run under xvfb-run")
	case strings.Contains(lower, "protocolunknownerror"):
		return format("check page paths and URLs; use absolute paths or http(s) URLs")
	}
	return ""
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-wkpdf/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), ".config/go-wkpdf") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTempDirectory returns hints for temp file write failures.
func ForTempDirectory() string {
	return format("set --temp-dir or WKPDF_TEMP_DIR to a writable directory")
}

func filepathSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
