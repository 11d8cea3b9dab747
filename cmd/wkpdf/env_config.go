package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-wkpdf/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // WKPDF_CONFIG: config file name or path
	Executable  string        // WKPDF_BIN: wkhtmltopdf name or path
	TempDir     string        // WKPDF_TEMP_DIR: directory for temp pages
	Timeout     time.Duration // WKPDF_TIMEOUT: conversion timeout
	Workers     int           // WKPDF_WORKERS: parallel conversions
	OutputDir   string        // WKPDF_OUTPUT_DIR: default output directory
	Style       string        // WKPDF_STYLE: CSS style name or path
	StyleDir    string        // WKPDF_STYLE_DIR: custom style directory
	PageSize    string        // WKPDF_PAGE_SIZE: paper size name
	Orientation string        // WKPDF_ORIENTATION: portrait, landscape
	DPI         int           // WKPDF_DPI: rendering DPI
	Title       string        // WKPDF_TITLE: PDF title
}

// knownEnvVars lists valid WKPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"WKPDF_CONFIG":      true,
	"WKPDF_BIN":         true,
	"WKPDF_TEMP_DIR":    true,
	"WKPDF_TIMEOUT":     true,
	"WKPDF_WORKERS":     true,
	"WKPDF_OUTPUT_DIR":  true,
	"WKPDF_STYLE":       true,
	"WKPDF_STYLE_DIR":   true,
	"WKPDF_PAGE_SIZE":   true,
	"WKPDF_ORIENTATION": true,
	"WKPDF_DPI":         true,
	"WKPDF_TITLE":       true,
	"WKPDF_CONTAINER":   true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("WKPDF_CONFIG"),
		Executable:  os.Getenv("WKPDF_BIN"),
		TempDir:     os.Getenv("WKPDF_TEMP_DIR"),
		OutputDir:   os.Getenv("WKPDF_OUTPUT_DIR"),
		Style:       os.Getenv("WKPDF_STYLE"),
		StyleDir:    os.Getenv("WKPDF_STYLE_DIR"),
		PageSize:    os.Getenv("WKPDF_PAGE_SIZE"),
		Orientation: os.Getenv("WKPDF_ORIENTATION"),
		Title:       os.Getenv("WKPDF_TITLE"),
	}

	if timeout := os.Getenv("WKPDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if workers := os.Getenv("WKPDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	if dpi := os.Getenv("WKPDF_DPI"); dpi != "" {
		if d, err := strconv.Atoi(dpi); err == nil && d > 0 {
			cfg.DPI = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized WKPDF_* variables.
// Helps catch typos like WKPDF_TIMOUT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "WKPDF_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment values on the config file values.
// Flags are merged afterwards, giving flags > env > config > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&cfg.Executable, env.Executable)
	setString(&cfg.TempDir, env.TempDir)
	setString(&cfg.Output.DefaultDir, env.OutputDir)
	setString(&cfg.Style, env.Style)
	setString(&cfg.StyleDir, env.StyleDir)
	setString(&cfg.Title, env.Title)
	setString(&cfg.Page.Orientation, env.Orientation)

	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
		cfg.Page.Width, cfg.Page.Height = "", ""
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout.String()
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.DPI > 0 {
		cfg.Page.DPI = env.DPI
	}
}
