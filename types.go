package wkpdf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Page size names understood by wkhtmltopdf (Qt paper sizes). Not exhaustive:
// any name the binary accepts can be passed through PageSize.Name.
const (
	PageSizeA3     = "A3"
	PageSizeA4     = "A4"
	PageSizeA5     = "A5"
	PageSizeLetter = "Letter"
	PageSizeLegal  = "Legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// MarginOmit leaves a margin out of the command line so the renderer's
// default applies. Any negative value has the same effect.
const MarginOmit = -1

// Margin holds the four page margins in millimeters.
type Margin struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargin returns a Margin with the same value on all sides.
func UniformMargin(mm float64) Margin {
	return Margin{Top: mm, Right: mm, Bottom: mm, Left: mm}
}

// PageSize is either a named paper size or an explicit width/height pair.
// Width and Height use wkhtmltopdf units ("210mm", "8.5in"); a bare number
// is millimeters.
type PageSize struct {
	Name   string
	Width  string
	Height string
}

// NamedSize returns a PageSize for a paper name such as "A4".
func NamedSize(name string) PageSize {
	return PageSize{Name: name}
}

// CustomSize returns a PageSize with explicit dimensions.
func CustomSize(width, height string) PageSize {
	return PageSize{Width: width, Height: height}
}

// IsZero reports whether no size is configured.
func (s PageSize) IsZero() bool {
	return s == PageSize{}
}

// isCustom reports whether the size is given as a width/height pair.
func (s PageSize) isCustom() bool {
	return s.Width != "" || s.Height != ""
}

// Validate checks that the size is either named or a complete pair.
func (s PageSize) Validate() error {
	if s.Name != "" && s.isCustom() {
		return fmt.Errorf("%w: name %q and dimensions are mutually exclusive", ErrInvalidPageSize, s.Name)
	}
	if s.isCustom() && (s.Width == "" || s.Height == "") {
		return fmt.Errorf("%w: width and height must both be set (got %q x %q)", ErrInvalidPageSize, s.Width, s.Height)
	}
	return nil
}

// Override is an explicitly set per-page value. The zero value is unset,
// which means "use the document setting"; an override set to the same value
// as the document is still an override.
type Override[T any] struct {
	value T
	set   bool
}

// Set returns an Override holding v.
func Set[T any](v T) Override[T] {
	return Override[T]{value: v, set: true}
}

// Value returns the override and whether it is set.
func (o Override[T]) Value() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the override holds a value.
func (o Override[T]) IsSet() bool {
	return o.set
}

// Or returns the override if set, otherwise fallback.
func (o Override[T]) Or(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}

// Settings holds the document-wide renderer configuration.
// Zero values mean "omit the flag" unless stated otherwise.
type Settings struct {
	DPI         int    // 0 = renderer default
	Margin      Margin // millimeters; negative side = renderer default
	Orientation string // "portrait" or "landscape" (case-insensitive); "" = default
	Size        PageSize
	Zoom        float64 // 0 = renderer default
	Title       string

	// Page defaults, applied to every page without a per-page override.
	Encoding              string
	PrintMediaType        bool
	StyleSheet            string // path or URL of a user style sheet
	EnableLocalFileAccess bool

	DisableSmartShrinking bool
	DisableInternalLinks  bool
}

// DefaultSettings returns the settings a new Document starts with:
// 200 dpi, 10mm margins, portrait A4, print media type, smart shrinking and
// internal links disabled.
func DefaultSettings() Settings {
	return Settings{
		DPI:                   200,
		Margin:                UniformMargin(10),
		Orientation:           OrientationPortrait,
		Size:                  NamedSize(PageSizeA4),
		PrintMediaType:        true,
		DisableSmartShrinking: true,
		DisableInternalLinks:  true,
	}
}

// Validate checks settings that the renderer would otherwise reject with a
// less helpful message.
func (s *Settings) Validate() error {
	if s.DPI < 0 {
		return fmt.Errorf("%w: %d (must be positive, 0 = default)", ErrInvalidDPI, s.DPI)
	}
	if s.Zoom < 0 {
		return fmt.Errorf("%w: %g (must be positive, 0 = default)", ErrInvalidZoom, s.Zoom)
	}
	if !isValidOrientation(s.Orientation) {
		return fmt.Errorf("%w: %q (must be portrait or landscape)", ErrInvalidOrientation, s.Orientation)
	}
	return s.Size.Validate()
}

// isValidOrientation checks if orientation is valid (case-insensitive).
func isValidOrientation(orientation string) bool {
	switch strings.ToLower(orientation) {
	case "", "portrait", "landscape":
		return true
	}
	return false
}

// Option configures a Document.
type Option func(*Document)

// defaultTimeout bounds a single conversion when no timeout is specified.
const defaultTimeout = 2 * time.Minute

// WithTimeout sets the conversion timeout. The renderer's process group is
// killed when it expires.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("wkpdf: WithTimeout duration must be positive")
	}
	return func(doc *Document) {
		doc.timeout = d
	}
}

// WithLocator sets the executable locator. Documents sharing a Locator share
// its cached resolution. Defaults to DefaultLocator.
func WithLocator(l *Locator) Option {
	return func(doc *Document) {
		if l != nil {
			doc.locator = l
		}
	}
}

// WithLogger sets the structured logger for debug output (resolved
// executable, command lines, cleanup). Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(doc *Document) {
		if l != nil {
			doc.logger = l
		}
	}
}

// WithFs sets the filesystem used for temp files. The renderer reads these
// files from disk, so anything other than the OS filesystem is only useful
// with a custom runner in tests.
func WithFs(fs afero.Fs) Option {
	return func(doc *Document) {
		if fs != nil {
			doc.fs = fs
		}
	}
}

// WithSettings replaces the initial settings (DefaultSettings otherwise).
func WithSettings(s Settings) Option {
	return func(doc *Document) {
		doc.Settings = s
	}
}
