package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	wkpdf "github.com/alnah/go-wkpdf"
	"github.com/alnah/go-wkpdf/internal/assets"
	"github.com/alnah/go-wkpdf/internal/config"
	"github.com/alnah/go-wkpdf/internal/fileutil"
	"github.com/alnah/go-wkpdf/internal/hints"
)

// ErrReadCSS indicates a CSS file given by path could not be read.
var ErrReadCSS = errors.New("failed to read CSS file")

// loadConfig loads the config named by the flag, else by WKPDF_CONFIG.
// Neither set means an empty config.
func loadConfig(flagConfig string, env *envConfig) (*config.Config, error) {
	name := flagConfig
	if name == "" {
		name = env.ConfigPath
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(configSearchPaths(name)))
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// configSearchPaths lists where a config name is looked up, for hints.
func configSearchPaths(name string) []string {
	if fileutil.IsFilePath(name) {
		return []string{name}
	}
	paths := []string{name + ".yaml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "go-wkpdf", name+".yaml"))
	}
	return paths
}

// mergeFlags overlays flags given on the command line onto cfg.
func mergeFlags(f *convertFlags, cfg *config.Config) {
	if f.changed("timeout") {
		cfg.Timeout = f.io.timeout
	}
	if f.changed("workers") {
		cfg.Workers = f.io.workers
	}
	if f.changed("executable") {
		cfg.Executable = f.io.executable
	}
	if f.changed("temp-dir") {
		cfg.TempDir = f.io.tempDir
	}
	if f.changed("title") {
		cfg.Title = f.io.title
	}
	if f.changed("cover") {
		cfg.Cover.File = f.cover
	}
	if f.changed("style") {
		cfg.Style = f.style.style
	}
	if f.changed("style-dir") {
		cfg.StyleDir = f.style.styleDir
	}

	mergePageFlags(f, &cfg.Page)
	mergeMetaFlags(f, &f.header, "header", &cfg.Header)
	mergeMetaFlags(f, &f.footer, "footer", &cfg.Footer)
	mergeTOCFlags(f, &cfg.TOC)
}

func mergePageFlags(f *convertFlags, p *config.PageConfig) {
	if f.changed("page-size") {
		p.Size = f.page.size
		p.Width, p.Height = "", ""
	}
	if f.changed("page-width") || f.changed("page-height") {
		p.Size = ""
		if f.changed("page-width") {
			p.Width = f.page.width
		}
		if f.changed("page-height") {
			p.Height = f.page.height
		}
	}
	if f.changed("orientation") {
		p.Orientation = f.page.orientation
	}
	if f.changed("dpi") {
		p.DPI = f.page.dpi
	}
	if f.changed("zoom") {
		p.Zoom = f.page.zoom
	}

	if f.changed("margin") {
		p.Margin.Top = ptr(f.page.margin)
		p.Margin.Right = ptr(f.page.margin)
		p.Margin.Bottom = ptr(f.page.margin)
		p.Margin.Left = ptr(f.page.margin)
	}
	// Per-side flags win over --margin.
	if f.changed("margin-top") {
		p.Margin.Top = ptr(f.page.marginTop)
	}
	if f.changed("margin-right") {
		p.Margin.Right = ptr(f.page.marginRight)
	}
	if f.changed("margin-bottom") {
		p.Margin.Bottom = ptr(f.page.marginBottom)
	}
	if f.changed("margin-left") {
		p.Margin.Left = ptr(f.page.marginLeft)
	}

	if f.changed("encoding") {
		p.Encoding = f.page.encoding
	}
	if f.changed("no-print-media-type") {
		p.PrintMediaType = ptr(!f.page.noPrintMedia)
	}
	if f.changed("user-style-sheet") {
		p.StyleSheet = f.page.styleSheet
	}
	if f.changed("enable-local-file-access") {
		p.LocalFileAccess = f.page.localFileAccess
	}
	if f.changed("smart-shrinking") {
		p.SmartShrinking = ptr(f.page.smartShrinking)
	}
	if f.changed("internal-links") {
		p.InternalLinks = ptr(f.page.internalLinks)
	}
}

func mergeMetaFlags(f *convertFlags, m *metaFlags, role string, c *config.MetaConfig) {
	if f.changed(role + "-html") {
		c.File = m.file
		c.HTML = ""
	}
	if f.changed(role + "-left") {
		c.Left = m.left
	}
	if f.changed(role + "-center") {
		c.Center = m.center
	}
	if f.changed(role + "-right") {
		c.Right = m.right
	}
	if f.changed(role + "-line") {
		c.Line = m.line
	}
	if f.changed(role + "-spacing") {
		c.Spacing = ptr(m.spacing)
	}
	if f.changed(role + "-font-name") {
		c.FontName = m.fontName
	}
	if f.changed(role + "-font-size") {
		c.FontSize = m.fontSize
	}
}

// mergeTOCFlags applies toc flags; any toc-* flag turns the TOC on.
func mergeTOCFlags(f *convertFlags, t *config.TOCConfig) {
	if f.changed("toc") {
		t.Enabled = f.toc.enabled
	}
	if f.changed("toc-header-text") {
		t.HeaderText = f.toc.headerText
		t.Enabled = true
	}
	if f.changed("toc-no-dots") {
		t.DisableDottedLines = f.toc.noDots
		t.Enabled = true
	}
	if f.changed("toc-no-links") {
		t.DisableLinks = f.toc.noLinks
		t.Enabled = true
	}
	if f.changed("toc-xsl") {
		t.XSLStyleSheet = f.toc.xsl
		t.Enabled = true
	}
}

// buildSettings turns the merged config into document settings, starting
// from the library defaults.
func buildSettings(cfg *config.Config) (wkpdf.Settings, error) {
	s := wkpdf.DefaultSettings()
	p := cfg.Page

	if p.Size != "" {
		s.Size = wkpdf.NamedSize(p.Size)
	}
	if p.Width != "" || p.Height != "" {
		s.Size = wkpdf.CustomSize(p.Width, p.Height)
	}
	if p.Orientation != "" {
		s.Orientation = strings.ToLower(p.Orientation)
	}
	if p.DPI > 0 {
		s.DPI = p.DPI
	}
	if p.Zoom > 0 {
		s.Zoom = p.Zoom
	}

	setMargin(&s.Margin.Top, p.Margin.Top)
	setMargin(&s.Margin.Right, p.Margin.Right)
	setMargin(&s.Margin.Bottom, p.Margin.Bottom)
	setMargin(&s.Margin.Left, p.Margin.Left)

	s.Encoding = p.Encoding
	s.StyleSheet = p.StyleSheet
	s.EnableLocalFileAccess = p.LocalFileAccess
	if p.PrintMediaType != nil {
		s.PrintMediaType = *p.PrintMediaType
	}
	if p.SmartShrinking != nil {
		s.DisableSmartShrinking = !*p.SmartShrinking
	}
	if p.InternalLinks != nil {
		s.DisableInternalLinks = !*p.InternalLinks
	}

	s.Title = cfg.Title

	if err := s.Validate(); err != nil {
		return wkpdf.Settings{}, err
	}
	return s, nil
}

func setMargin(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// applyMeta copies a configured header or footer onto m.
func applyMeta(m *wkpdf.PageMeta, c config.MetaConfig) {
	m.HTML = c.HTML
	m.File = c.File
	m.Left = c.Left
	m.Center = c.Center
	m.Right = c.Right
	m.Line = c.Line
	m.FontName = c.FontName
	m.FontSize = c.FontSize
	if c.Spacing != nil {
		m.Spacing = wkpdf.Set(*c.Spacing)
	}
}

// applyTOC copies the configured TOC options onto t.
func applyTOC(t *wkpdf.TOC, c config.TOCConfig) {
	t.DisableDottedLines = c.DisableDottedLines
	t.DisableLinks = c.DisableLinks
	t.XSLStyleSheet = c.XSLStyleSheet
}

// resolveCSS returns the stylesheet for Markdown inputs. A value ending in
// .css or containing a path separator is read from disk; anything else is a
// style name looked up in the style directory, then the embedded styles.
func resolveCSS(cfg *config.Config, noStyle bool) (string, error) {
	if noStyle {
		return "", nil
	}

	name := cfg.Style
	if name == "" {
		name = assets.DefaultStyle
	}

	if strings.HasSuffix(strings.ToLower(name), ".css") || fileutil.IsFilePath(name) {
		content, err := os.ReadFile(name) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrReadCSS, err)
		}
		return string(content), nil
	}

	resolver, err := assets.NewResolver(cfg.StyleDir)
	if err != nil {
		return "", err
	}
	return resolver.LoadStyle(name)
}

// newLocator returns the shared default locator, or a dedicated one for an
// explicit executable.
func newLocator(executable string) *wkpdf.Locator {
	if executable == "" {
		return wkpdf.DefaultLocator
	}
	return wkpdf.NewLocator(executable)
}

func ptr[T any](v T) *T {
	return &v
}
