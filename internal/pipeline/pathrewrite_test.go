package pipeline

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRewriteRelativePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fileURL := func(parts ...string) string {
		return pathToFileURL(filepath.Join(append([]string{dir}, parts...)...))
	}

	tests := []struct {
		name    string
		html    string
		want    []string
		wantNot []string
	}{
		{
			name: "img src",
			html: `<img src="images/a.png">`,
			want: []string{`src="` + fileURL("images", "a.png") + `"`},
		},
		{
			name: "link stylesheet",
			html: `<link rel="stylesheet" href="style.css">`,
			want: []string{`href="` + fileURL("style.css") + `"`},
		},
		{
			name: "anchor to sibling",
			html: `<a href="other.html">x</a>`,
			want: []string{`href="` + fileURL("other.html") + `"`},
		},
		{
			name: "dot slash prefix",
			html: `<img src="./a.png">`,
			want: []string{`src="` + fileURL("a.png") + `"`},
		},
		{
			name: "remote untouched",
			html: `<img src="https://example.com/a.png">`,
			want: []string{`src="https://example.com/a.png"`},
		},
		{
			name: "data uri untouched",
			html: `<img src="data:image/png;base64,AAAA">`,
			want: []string{`src="data:image/png;base64,AAAA"`},
		},
		{
			name: "fragment anchor untouched",
			html: `<a href="#section">x</a>`,
			want: []string{`href="#section"`},
		},
		{
			name: "mailto untouched",
			html: `<a href="mailto:a@b.c">x</a>`,
			want: []string{`href="mailto:a@b.c"`},
		},
		{
			name:    "traversal left alone",
			html:    `<img src="../../etc/passwd">`,
			want:    []string{`src="../../etc/passwd"`},
			wantNot: []string{"file://"},
		},
		{
			name:    "other attributes untouched",
			html:    `<img alt="pic.png" src="pic.png">`,
			want:    []string{`alt="pic.png"`, `src="` + fileURL("pic.png") + `"`},
			wantNot: []string{`alt="file://`},
		},
		{
			name:    "fragment not wrapped",
			html:    `<p>hi</p>`,
			want:    []string{`<p>hi</p>`},
			wantNot: []string{"<html>", "<body>"},
		},
		{
			name: "full document kept whole",
			html: `<!DOCTYPE html><html><head></head><body><img src="a.png"></body></html>`,
			want: []string{"<!DOCTYPE html>", "<body>", fileURL("a.png")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRelativePaths(tt.html, dir)
			if err != nil {
				t.Fatalf("RewriteRelativePaths() error = %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q\ngot: %s", w, got)
				}
			}
			for _, w := range tt.wantNot {
				if strings.Contains(got, w) {
					t.Errorf("output should not contain %q\ngot: %s", w, got)
				}
			}
		})
	}
}

func TestRewriteRelativePaths_EmptyDir(t *testing.T) {
	t.Parallel()

	in := `<img src="a.png">`
	got, err := RewriteRelativePaths(in, "")
	if err != nil {
		t.Fatalf("RewriteRelativePaths() error = %v", err)
	}
	if got != in {
		t.Errorf("got %q, want input unchanged", got)
	}
}

func TestIsRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"a.png", true},
		{"dir/a.png", true},
		{"../a.png", true},
		{"", false},
		{"#top", false},
		{"//cdn.example.com/a.js", false},
		{"http://x/a", false},
		{"file:///tmp/a", false},
		{"/abs/a.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := isRelativePath(tt.path); got != tt.want {
				t.Errorf("isRelativePath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsPathUnderDir(t *testing.T) {
	t.Parallel()

	base := filepath.Join(string(filepath.Separator), "docs")
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"same dir", base, true},
		{"child", filepath.Join(base, "a.png"), true},
		{"nested", filepath.Join(base, "x", "y.png"), true},
		{"parent", filepath.Dir(base), false},
		{"sibling with prefix", base + "2", false},
		{"dotdot-named file", filepath.Join(base, "..a.png"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isPathUnderDir(tt.path, base); got != tt.want {
				t.Errorf("isPathUnderDir(%q, %q) = %v, want %v", tt.path, base, got, tt.want)
			}
		})
	}
}

func TestPathToFileURL(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		if got := pathToFileURL(`C:\docs\a b.png`); got != "file:///C:/docs/a%20b.png" {
			t.Errorf("pathToFileURL() = %q", got)
		}
		return
	}
	if got := pathToFileURL("/docs/a b.png"); got != "file:///docs/a%20b.png" {
		t.Errorf("pathToFileURL() = %q, want file:///docs/a%%20b.png", got)
	}
}
