//go:build !windows

package main

// Notes:
// - Fake renderers are shell scripts answering --version like wkhtmltopdf.
// - Tests that exec scripts do not run in parallel: writing an executable
//   while another goroutine forks can fail with ETXTBSY.

import (
	"os"
	"path/filepath"
	"testing"
)

const patchedVersion = "wkhtmltopdf 0.12.6 (with patched qt)"

// echoRenderer writes a fake PDF holding every argument on its own line,
// each page path followed by the page content, so tests can inspect what was passed.
const echoRenderer = `printf '%%PDF-1.4\n'
prev=""
for a in "$@"; do
  printf '%s\n' "$a"
  if [ "$prev" = "page" ] || [ "$prev" = "cover" ]; then cat "$a"; printf '\n'; fi
  prev="$a"
done
`

// writeRenderer creates an executable fake wkhtmltopdf reporting version and
// running body for conversions.
func writeRenderer(t *testing.T, version, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "wkhtmltopdf")
	script := "#!/bin/sh\nif [ \"$1\" = \"--version\" ]; then echo '" + version + "'; exit 0; fi\n" + body
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil { // #nosec G306 -- test executable
		t.Fatalf("writing fake renderer: %v", err)
	}
	return path
}
