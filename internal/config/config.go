package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-wkpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits. Values end up on a command line, so they are kept
// well under ARG_MAX.
const (
	MaxPathLength        = 4096 // PATH_MAX on Linux
	MaxURLLength         = 2048 // Browser limit
	MaxTitleLength       = 200  // Document title
	MaxTextLength        = 500  // Header/footer text slots
	MaxHTMLLength        = 64 << 10
	MaxFontNameLength    = 100
	MaxPageSizeLength    = 20 // "Letter", "A4", "Executive"
	MaxDimensionLength   = 20 // "210mm", "8.5in"
	MaxOrientationLength = 10 // "portrait", "landscape"
	MaxEncodingLength    = 40 // "utf-8", "windows-1252"
	MaxTOCHeaderLength   = 100
)

// Config holds the CLI configuration loaded from YAML.
//
// Pointer fields distinguish "not set" from the zero value, so a config file
// can turn a default-on behavior off.
type Config struct {
	Executable string       `yaml:"executable"` // path or name of wkhtmltopdf (empty = probe defaults)
	TempDir    string       `yaml:"tempDir"`    // empty = os.TempDir()
	Timeout    string       `yaml:"timeout"`    // Go duration, e.g. "90s" (empty = library default)
	Workers    int          `yaml:"workers"`    // 0 = auto
	Title      string       `yaml:"title"`      // empty = first <title> or <h1> of the inputs
	Style      string       `yaml:"style"`      // CSS for Markdown inputs: name or .css path (empty = "default")
	StyleDir   string       `yaml:"styleDir"`   // directory of custom {name}.css styles
	Output     OutputConfig `yaml:"output"`
	Page       PageConfig   `yaml:"page"`
	Header     MetaConfig   `yaml:"header"`
	Footer     MetaConfig   `yaml:"footer"`
	TOC        TOCConfig    `yaml:"toc"`
	Cover      CoverConfig  `yaml:"cover"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// PageConfig defines renderer page settings.
type PageConfig struct {
	Size            string       `yaml:"size"`   // named paper size, e.g. "A4"
	Width           string       `yaml:"width"`  // custom width, exclusive with size
	Height          string       `yaml:"height"` // custom height, exclusive with size
	Orientation     string       `yaml:"orientation"`
	DPI             int          `yaml:"dpi"`
	Zoom            float64      `yaml:"zoom"`
	Margin          MarginConfig `yaml:"margin"`
	Encoding        string       `yaml:"encoding"`
	PrintMediaType  *bool        `yaml:"printMediaType"`
	StyleSheet      string       `yaml:"styleSheet"`
	SmartShrinking  *bool        `yaml:"smartShrinking"`
	InternalLinks   *bool        `yaml:"internalLinks"`
	LocalFileAccess bool         `yaml:"localFileAccess"`
}

// MarginConfig holds per-side margins in millimeters. A negative value
// omits the side.
type MarginConfig struct {
	Top    *float64 `yaml:"top"`
	Right  *float64 `yaml:"right"`
	Bottom *float64 `yaml:"bottom"`
	Left   *float64 `yaml:"left"`
}

// MetaConfig defines a page header or footer.
type MetaConfig struct {
	HTML     string   `yaml:"html"` // inline HTML
	File     string   `yaml:"file"` // HTML file or URL
	Left     string   `yaml:"left"`
	Center   string   `yaml:"center"`
	Right    string   `yaml:"right"`
	Line     bool     `yaml:"line"`
	Spacing  *float64 `yaml:"spacing"`
	FontName string   `yaml:"fontName"`
	FontSize int      `yaml:"fontSize"`
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled            bool   `yaml:"enabled"`
	HeaderText         string `yaml:"headerText"`
	DisableDottedLines bool   `yaml:"disableDottedLines"`
	DisableLinks       bool   `yaml:"disableLinks"`
	XSLStyleSheet      string `yaml:"xslStyleSheet"`
}

// CoverConfig defines the cover page.
type CoverConfig struct {
	File string `yaml:"file"` // HTML file, Markdown file, or URL (empty = no cover)
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{"executable", c.Executable, MaxPathLength},
		{"tempDir", c.TempDir, MaxPathLength},
		{"title", c.Title, MaxTitleLength},
		{"style", c.Style, MaxPathLength},
		{"styleDir", c.StyleDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.width", c.Page.Width, MaxDimensionLength},
		{"page.height", c.Page.Height, MaxDimensionLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"page.encoding", c.Page.Encoding, MaxEncodingLength},
		{"page.styleSheet", c.Page.StyleSheet, MaxURLLength},
		{"toc.headerText", c.TOC.HeaderText, MaxTOCHeaderLength},
		{"toc.xslStyleSheet", c.TOC.XSLStyleSheet, MaxPathLength},
		{"cover.file", c.Cover.File, MaxURLLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
			return err
		}
	}

	if err := c.Header.validate("header"); err != nil {
		return err
	}
	if err := c.Footer.validate("footer"); err != nil {
		return err
	}

	if c.Timeout != "" {
		d, err := time.ParseDuration(c.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout: %q is not a duration (e.g. 90s, 2m)", ErrInvalidValue, c.Timeout)
		}
		if d <= 0 {
			return fmt.Errorf("%w: timeout: must be positive, got %s", ErrInvalidValue, c.Timeout)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers: must be >= 0, got %d", ErrInvalidValue, c.Workers)
	}

	return c.Page.validate()
}

func (p *PageConfig) validate() error {
	if p.Orientation != "" {
		switch strings.ToLower(p.Orientation) {
		case "portrait", "landscape":
		default:
			return fmt.Errorf("%w: page.orientation: %q (must be portrait or landscape)", ErrInvalidValue, p.Orientation)
		}
	}
	if (p.Width == "") != (p.Height == "") {
		return fmt.Errorf("%w: page.width and page.height must be set together", ErrInvalidValue)
	}
	if p.Size != "" && p.Width != "" {
		return fmt.Errorf("%w: page.size and page.width/height are mutually exclusive", ErrInvalidValue)
	}
	if p.DPI < 0 {
		return fmt.Errorf("%w: page.dpi: must be >= 0, got %d", ErrInvalidValue, p.DPI)
	}
	if p.Zoom < 0 {
		return fmt.Errorf("%w: page.zoom: must be >= 0, got %g", ErrInvalidValue, p.Zoom)
	}
	return nil
}

func (m *MetaConfig) validate(role string) error {
	checks := []struct {
		field string
		value string
		max   int
	}{
		{role + ".html", m.HTML, MaxHTMLLength},
		{role + ".file", m.File, MaxURLLength},
		{role + ".left", m.Left, MaxTextLength},
		{role + ".center", m.Center, MaxTextLength},
		{role + ".right", m.Right, MaxTextLength},
		{role + ".fontName", m.FontName, MaxFontNameLength},
	}
	for _, chk := range checks {
		if err := validateFieldLength(chk.field, chk.value, chk.max); err != nil {
			return err
		}
	}
	if m.HTML != "" && m.File != "" {
		return fmt.Errorf("%w: %s.html and %s.file are mutually exclusive", ErrInvalidValue, role, role)
	}
	if m.FontSize < 0 {
		return fmt.Errorf("%w: %s.fontSize: must be >= 0, got %d", ErrInvalidValue, role, m.FontSize)
	}
	return nil
}

// IsZero reports whether no header/footer content or styling is configured.
func (m *MetaConfig) IsZero() bool {
	return *m == MetaConfig{}
}

// TimeoutDuration returns the parsed timeout, or 0 when unset.
// Call Validate first; an unparsable value also yields 0.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns an empty configuration: every setting falls back to
// the library defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-wkpdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-wkpdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
