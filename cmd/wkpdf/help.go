package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wkpdf <command> [flags] [args]")
	fmt.Fprintln(w, "       wkpdf <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert      Convert HTML, Markdown, or URLs to PDF with wkhtmltopdf")
	fmt.Fprintln(w, "  doctor       Check wkhtmltopdf and the environment")
	fmt.Fprintln(w, "  completion   Generate shell completion script")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'wkpdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wkpdf convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert HTML files, Markdown files, directories, or http(s) URLs to PDF.")
	fmt.Fprintln(w, "Each input gets its own PDF unless --merge is set.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>            Output file or directory")
	fmt.Fprintln(w, "  -m, --merge                    Merge all inputs into the -o file")
	fmt.Fprintln(w, "  -c, --config <name>            Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>              Parallel conversions (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>              Conversion timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --executable <path>        wkhtmltopdf name or path")
	fmt.Fprintln(w, "      --temp-dir <dir>           Directory for temporary page files")
	fmt.Fprintln(w, "      --title <s>                PDF title (\"\" = first <title> or <h1>)")
	fmt.Fprintln(w, "      --print-command            Print the wkhtmltopdf command, do not run it")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>            Paper size: A4, Letter, Legal, ... (default A4)")
	fmt.Fprintln(w, "      --page-width <s>           Custom width (with --page-height)")
	fmt.Fprintln(w, "      --page-height <s>          Custom height (with --page-width)")
	fmt.Fprintln(w, "      --orientation <s>          portrait, landscape")
	fmt.Fprintln(w, "      --dpi <n>                  Rendering DPI (default 200)")
	fmt.Fprintln(w, "      --zoom <f>                 Zoom factor")
	fmt.Fprintln(w, "      --margin <mm>              All margins (default 10)")
	fmt.Fprintln(w, "      --margin-top <mm>          Also -right, -bottom, -left; negative = renderer default")
	fmt.Fprintln(w, "      --encoding <s>             Default page encoding")
	fmt.Fprintln(w, "      --no-print-media-type      Use screen CSS media")
	fmt.Fprintln(w, "      --user-style-sheet <path>  Style sheet applied to every page")
	fmt.Fprintln(w, "      --enable-local-file-access Let pages load local files")
	fmt.Fprintln(w, "      --smart-shrinking          Keep smart shrinking on")
	fmt.Fprintln(w, "      --internal-links           Keep internal links")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Header/Footer (replace header with footer for the footer):")
	fmt.Fprintln(w, "      --header-html <path>       HTML file or URL")
	fmt.Fprintln(w, "      --header-left <s>          Left text; [page], [topage], [title], [date]")
	fmt.Fprintln(w, "      --header-center <s>        Centered text")
	fmt.Fprintln(w, "      --header-right <s>         Right text")
	fmt.Fprintln(w, "      --header-line              Separator line")
	fmt.Fprintln(w, "      --header-spacing <mm>      Spacing to content")
	fmt.Fprintln(w, "      --header-font-name <s>     Font name")
	fmt.Fprintln(w, "      --header-font-size <n>     Font size")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cover and Table of Contents:")
	fmt.Fprintln(w, "      --cover <path>             Cover page: HTML/Markdown file or URL")
	fmt.Fprintln(w, "      --toc                      Insert a table of contents")
	fmt.Fprintln(w, "      --toc-header-text <s>      TOC heading")
	fmt.Fprintln(w, "      --toc-no-dots              No dotted lines")
	fmt.Fprintln(w, "      --toc-no-links             No links")
	fmt.Fprintln(w, "      --toc-xsl <path>           XSL style sheet")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Markdown Styling:")
	fmt.Fprintln(w, "      --style <s>                Style name or .css file (default \"default\")")
	fmt.Fprintln(w, "      --style-dir <dir>          Directory of custom {name}.css styles")
	fmt.Fprintln(w, "      --no-style                 No CSS")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                    Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                  Log executable, command lines, and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment: WKPDF_CONFIG, WKPDF_BIN, WKPDF_TEMP_DIR, WKPDF_TIMEOUT,")
	fmt.Fprintln(w, "WKPDF_WORKERS, WKPDF_OUTPUT_DIR, WKPDF_STYLE, WKPDF_STYLE_DIR,")
	fmt.Fprintln(w, "WKPDF_PAGE_SIZE, WKPDF_ORIENTATION, WKPDF_DPI, WKPDF_TITLE.")
	fmt.Fprintln(w, "Precedence: flags > environment > config file > defaults.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wkpdf doctor [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that wkhtmltopdf can be found and the temp directory is writable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Machine-readable output")
	fmt.Fprintln(w, "      --executable <path>   wkhtmltopdf name or path to check")
	fmt.Fprintln(w, "      --temp-dir <dir>      Temp directory to check")
	fmt.Fprintln(w, "      --style-dir <dir>     Custom style directory to list")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: wkpdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: wkpdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
