package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	wkpdf "github.com/alnah/go-wkpdf"
	"github.com/alnah/go-wkpdf/internal/assets"
	"github.com/alnah/go-wkpdf/internal/fileutil"
	flag "github.com/spf13/pflag"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string       `json:"status"` // "ready", "warnings", "errors"
	Renderer rendererInfo `json:"renderer"`
	Env      envInfo      `json:"environment"`
	System   systemInfo   `json:"system"`
	Warnings []string     `json:"warnings,omitempty"`
	Errors   []string     `json:"errors,omitempty"`
}

// rendererInfo holds wkhtmltopdf detection results.
type rendererInfo struct {
	Found      bool     `json:"found"`
	Path       string   `json:"path,omitempty"`
	Version    string   `json:"version,omitempty"`
	PatchedQt  bool     `json:"patched_qt"`
	Candidates []string `json:"candidates"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	Display       string `json:"display,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`

	StyleDir string   `json:"style_dir,omitempty"`
	Styles   []string `json:"styles"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 4 = renderer missing, 1 = other errors.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { printDoctorUsage(env.Stderr) }
	jsonOutput := fs.Bool("json", false, "machine-readable output")
	executable := fs.String("executable", os.Getenv("WKPDF_BIN"), "wkhtmltopdf name or path")
	tempDir := fs.String("temp-dir", os.Getenv("WKPDF_TEMP_DIR"), "temp directory to check")
	styleDir := fs.String("style-dir", os.Getenv("WKPDF_STYLE_DIR"), "custom style directory to check")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return ExitSuccess
		}
		return ExitUsage
	}

	result := runDoctor(ctx, newLocator(*executable), *tempDir, *styleDir)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	switch {
	case !result.Renderer.Found:
		return ExitRenderer
	case result.Status == "errors":
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, locator *wkpdf.Locator, tempDir, styleDir string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
			Display: os.Getenv("DISPLAY"),
		},
	}

	checkRenderer(ctx, result, locator)
	checkEnvironment(result)
	checkSystem(result, tempDir)
	checkStyles(result, styleDir)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkRenderer resolves wkhtmltopdf and inspects its version banner.
func checkRenderer(ctx context.Context, result *doctorResult, locator *wkpdf.Locator) {
	result.Renderer.Candidates = locator.Candidates()

	path, err := locator.Resolve(ctx)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("%v. Install wkhtmltopdf or set WKPDF_BIN", err))
		return
	}

	result.Renderer.Found = true
	result.Renderer.Path = path
	result.Renderer.Version = locator.Version()
	result.Renderer.PatchedQt = strings.Contains(strings.ToLower(result.Renderer.Version), "patched qt")

	if !result.Renderer.PatchedQt {
		result.Warnings = append(result.Warnings,
			"wkhtmltopdf is not built with patched Qt: headers, footers, TOC, and cover pages are ignored")
		if runtime.GOOS == "linux" && result.Env.Display == "" {
			result.Warnings = append(result.Warnings,
				"DISPLAY is not set: unpatched builds need an X server (try xvfb-run)")
		}
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	if os.Getenv("WKPDF_CONTAINER") == "1" {
		return true, "WKPDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman, systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory accepts files.
func checkSystem(result *doctorResult, tempDir string) {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	result.System.TempDir = tempDir

	if err := fileutil.CheckWritableDir(tempDir); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tempDir))
		return
	}
	result.System.TempWritable = true
}

// checkStyles lists the styles Markdown inputs can use.
func checkStyles(result *doctorResult, styleDir string) {
	if styleDir != "" && !fileutil.DirExists(styleDir) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Style directory not found: %s (embedded styles only)", styleDir))
		styleDir = ""
	}

	resolver, err := assets.NewResolver(styleDir)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Style directory unusable: %v", err))
		return
	}
	if resolver.HasCustomLoader() {
		result.System.StyleDir = styleDir
	}

	styles, err := resolver.Styles()
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Listing styles: %v", err))
		return
	}
	result.System.Styles = styles
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "wkpdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "wkhtmltopdf")
	if r.Renderer.Found {
		fmt.Fprintf(w, "  [OK] Found: %s\n", r.Renderer.Path)
		if r.Renderer.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Renderer.Version)
		}
		if r.Renderer.PatchedQt {
			fmt.Fprintln(w, "  [OK] Patched Qt: yes")
		} else {
			fmt.Fprintln(w, "  [WARN] Patched Qt: no")
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] Not found (tried %s)\n", strings.Join(r.Renderer.Candidates, ", "))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory: %s (writable)\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Temp directory: %s (not writable)\n", r.System.TempDir)
	}
	if r.System.StyleDir != "" {
		fmt.Fprintf(w, "  [OK] Style directory: %s\n", r.System.StyleDir)
	}
	fmt.Fprintf(w, "  [OK] Styles: %s\n", strings.Join(r.System.Styles, ", "))
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
