package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing failures.
var ErrUsage = errors.New("invalid usage")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// ioFlags holds input/output and process flags.
type ioFlags struct {
	output       string
	workers      int
	timeout      string
	executable   string
	tempDir      string
	title        string
	merge        bool
	printCommand bool
}

// pageFlags holds document-wide renderer settings.
type pageFlags struct {
	size            string
	width           string
	height          string
	orientation     string
	dpi             int
	zoom            float64
	margin          float64
	marginTop       float64
	marginRight     float64
	marginBottom    float64
	marginLeft      float64
	encoding        string
	noPrintMedia    bool
	styleSheet      string
	localFileAccess bool
	smartShrinking  bool
	internalLinks   bool
}

// metaFlags holds header or footer flags.
type metaFlags struct {
	file     string
	left     string
	center   string
	right    string
	line     bool
	spacing  float64
	fontName string
	fontSize int
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled    bool
	headerText string
	noDots     bool
	noLinks    bool
	xsl        string
}

// styleFlags holds CSS flags for Markdown inputs.
type styleFlags struct {
	style    string
	styleDir string
	noStyle  bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common commonFlags
	io     ioFlags
	page   pageFlags
	header metaFlags
	footer metaFlags
	toc    tocFlags
	cover  string
	style  styleFlags

	// set records flags given on the command line, so zero values can be
	// told apart from absent flags.
	set map[string]bool
}

// changed reports whether the named flag was given.
func (f *convertFlags) changed(name string) bool {
	return f.set[name]
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log resolved executable and command lines")
}

func addIOFlags(fs *flag.FlagSet, f *ioFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel conversions (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.executable, "executable", "", "wkhtmltopdf name or path")
	fs.StringVar(&f.tempDir, "temp-dir", "", "directory for temporary page files")
	fs.StringVar(&f.title, "title", "", "PDF title (\"\" = first <title> or <h1>)")
	fs.BoolVarP(&f.merge, "merge", "m", false, "merge all inputs into the -o file")
	fs.BoolVar(&f.printCommand, "print-command", false, "print the wkhtmltopdf command instead of running it")
}

func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "paper size: A4, Letter, Legal, ...")
	fs.StringVar(&f.width, "page-width", "", "custom page width (e.g., 210mm)")
	fs.StringVar(&f.height, "page-height", "", "custom page height (e.g., 297mm)")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.IntVar(&f.dpi, "dpi", 0, "rendering DPI")
	fs.Float64Var(&f.zoom, "zoom", 0, "zoom factor")
	fs.Float64Var(&f.margin, "margin", 0, "all margins in mm")
	fs.Float64Var(&f.marginTop, "margin-top", 0, "top margin in mm")
	fs.Float64Var(&f.marginRight, "margin-right", 0, "right margin in mm")
	fs.Float64Var(&f.marginBottom, "margin-bottom", 0, "bottom margin in mm")
	fs.Float64Var(&f.marginLeft, "margin-left", 0, "left margin in mm")
	fs.StringVar(&f.encoding, "encoding", "", "default text encoding of pages")
	fs.BoolVar(&f.noPrintMedia, "no-print-media-type", false, "use screen instead of print CSS media")
	fs.StringVar(&f.styleSheet, "user-style-sheet", "", "user style sheet applied to every page")
	fs.BoolVar(&f.localFileAccess, "enable-local-file-access", false, "let pages load local files")
	fs.BoolVar(&f.smartShrinking, "smart-shrinking", false, "keep wkhtmltopdf smart shrinking on")
	fs.BoolVar(&f.internalLinks, "internal-links", false, "keep internal links as PDF links")
}

// addMetaFlags registers header-* or footer-* flags.
func addMetaFlags(fs *flag.FlagSet, f *metaFlags, role string) {
	fs.StringVar(&f.file, role+"-html", "", role+" HTML file or URL")
	fs.StringVar(&f.left, role+"-left", "", "left "+role+" text ([page], [topage], [title], ...)")
	fs.StringVar(&f.center, role+"-center", "", "centered "+role+" text")
	fs.StringVar(&f.right, role+"-right", "", "right "+role+" text")
	fs.BoolVar(&f.line, role+"-line", false, "draw a separator line")
	fs.Float64Var(&f.spacing, role+"-spacing", 0, "spacing to content in mm")
	fs.StringVar(&f.fontName, role+"-font-name", "", role+" font")
	fs.IntVar(&f.fontSize, role+"-font-size", 0, role+" font size")
}

func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringVar(&f.headerText, "toc-header-text", "", "table of contents heading")
	fs.BoolVar(&f.noDots, "toc-no-dots", false, "no dotted lines in the table of contents")
	fs.BoolVar(&f.noLinks, "toc-no-links", false, "no links from the table of contents")
	fs.StringVar(&f.xsl, "toc-xsl", "", "XSL style sheet for the table of contents")
}

func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "CSS for Markdown inputs: style name or .css file")
	fs.StringVar(&f.styleDir, "style-dir", "", "directory of custom {name}.css styles")
	fs.BoolVar(&f.noStyle, "no-style", false, "no CSS for Markdown inputs")
}

// newConvertFlagSet registers every convert flag on a new FlagSet bound to f.
func newConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	addCommonFlags(fs, &f.common)
	addIOFlags(fs, &f.io)
	addPageFlags(fs, &f.page)
	addMetaFlags(fs, &f.header, "header")
	addMetaFlags(fs, &f.footer, "footer")
	addTOCFlags(fs, &f.toc)
	fs.StringVar(&f.cover, "cover", "", "cover page: HTML/Markdown file or URL")
	addStyleFlags(fs, &f.style)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
// Help requests return flag.ErrHelp after printing usage to w.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{set: map[string]bool{}}
	fs := newConvertFlagSet(f)
	fs.SetOutput(w)
	fs.Usage = func() { printConvertUsage(w) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, fs.Args(), nil
}
