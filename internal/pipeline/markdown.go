package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates Markdown conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
// The charset meta matters: wkhtmltopdf otherwise guesses Latin-1.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// Highlight markers use Private Use Area runes: they pass through Goldmark
// untouched and are swapped for <mark> tags afterwards, so raw HTML can stay
// disabled.
const (
	markStart = "\uE000"
	markEnd   = "\uE001"
)

var (
	crlfOrCR         = regexp.MustCompile(`\r\n?`)
	highlightPattern = regexp.MustCompile(`==(.*?)==`)
)

// MarkdownInput describes one Markdown document to convert.
type MarkdownInput struct {
	Content   string
	Title     string // <title> of the output; empty = first <h1>, then "Document"
	SourceDir string // base for relative paths; empty = leave them alone
	CSS       string // injected as a <style> block; empty = none
}

// MarkdownConverter converts Markdown to standalone HTML documents.
// Safe for concurrent use.
type MarkdownConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter creates a converter with GFM, footnotes, heading IDs,
// and class-based syntax highlighting.
func NewMarkdownConverter() *MarkdownConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false), // inline colors: no extra stylesheet to ship
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // anchors for the renderer's TOC and outline
		),
		goldmark.WithRendererOptions(
			gmhtml.WithXHTML(),
			// WithUnsafe is not set: raw HTML in Markdown is dropped.
		),
	)
	return &MarkdownConverter{md: md}
}

// Convert renders in as a complete HTML document.
// Goldmark has no context support, so cancellation is checked around it.
func (c *MarkdownConverter) Convert(ctx context.Context, in MarkdownInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := c.md.Convert([]byte(preprocess(in.Content)), &body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	fragment := replaceMarks(body.String())

	title := in.Title
	if title == "" {
		title = ExtractTitle(fragment)
	}
	if title == "" {
		title = "Document"
	}

	doc := fmt.Sprintf(htmlTemplate, html.EscapeString(title), fragment)
	doc = InjectCSS(doc, in.CSS)

	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, err := RewriteRelativePaths(doc, in.SourceDir)
	if err != nil {
		return "", fmt.Errorf("%w: rewriting paths: %v", ErrHTMLConversion, err)
	}
	return out, nil
}

// preprocess normalizes line endings and marks ==highlight== spans.
func preprocess(content string) string {
	content = crlfOrCR.ReplaceAllString(content, "\n")
	return highlightPattern.ReplaceAllString(content, markStart+"$1"+markEnd)
}

func replaceMarks(content string) string {
	return strings.NewReplacer(markStart, "<mark>", markEnd, "</mark>").Replace(content)
}
