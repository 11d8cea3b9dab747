// Package wkpdf converts HTML to PDF by driving the wkhtmltopdf binary.
//
// # Quick Start
//
// Build a document, add pages, and save it:
//
//	doc := wkpdf.NewDocument("")
//	doc.Title = "Report"
//	doc.AddHTML("<h1>Hello</h1>", false)
//	doc.AddFile("chapter1.html", false)
//
//	if err := doc.Save(ctx, "report.pdf"); err != nil {
//	    log.Fatal(err)
//	}
//
// Inline HTML is written to temp files in the directory passed to
// NewDocument (os.TempDir() when empty). They are removed after every
// conversion, successful or not.
//
// # Command Line
//
// A Document is a builder for one renderer invocation. Global flags come
// first, then header and footer, then parts in the order they were added,
// then "-" so the PDF is written to standard output:
//
//	wkhtmltopdf -q --disable-smart-shrinking --disable-internal-links \
//	    -T 10 -R 10 -B 10 -L 10 --dpi 200 --orientation portrait \
//	    --page-size A4 toc --toc-header-text Contents page /tmp/3f2a....html -
//
// Arguments are passed to the process without a shell. Command returns the
// invocation without running it; its String method quotes it for a POSIX
// shell.
//
// # Pages and Overrides
//
// HTML and file pages inherit encoding, print media type, user style sheet,
// and local file access from the document settings. Set an override to
// change one page only:
//
//	page := doc.AddFile("appendix.html", false)
//	page.PrintMediaType = wkpdf.Set(false)
//
// An override set to the document value is still emitted; unset overrides
// follow the document.
//
// # Executable Lookup
//
// Documents share DefaultLocator, which probes DefaultExecutables with
// "--version" once and caches the first that answers. Use WithLocator for a
// different candidate list:
//
//	loc := wkpdf.NewLocator("/opt/wkhtmltopdf/bin/wkhtmltopdf")
//	doc := wkpdf.NewDocument("", wkpdf.WithLocator(loc))
//
// # Errors
//
// Failures are returned, never logged and dropped. A renderer exiting
// non-zero yields an *ExecError whose message is its standard error; it
// matches ErrConversion:
//
//	var execErr *wkpdf.ExecError
//	if errors.As(err, &execErr) {
//	    fmt.Println(execErr.ExitCode, execErr.Stderr)
//	}
//
// Other sentinels: ErrExecutableNotFound, ErrTimeout, ErrTempFile,
// ErrWriteOutput, ErrConversionInFlight, and validation errors.
package wkpdf
