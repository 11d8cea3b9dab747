package pipeline

import (
	"net/url"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rewrittenAttrs lists the attributes holding local resources the renderer
// must find once the HTML lives in a temp directory.
var rewrittenAttrs = map[atom.Atom]string{
	atom.Img:  "src",
	atom.Link: "href", // stylesheets
	atom.A:    "href", // links to sibling documents
}

// RewriteRelativePaths converts relative img/link/a paths to absolute
// file:// URLs under sourceDir. An empty sourceDir returns the HTML
// unchanged. URLs, anchors, absolute paths, and paths escaping sourceDir are
// left as they are.
func RewriteRelativePaths(htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	root, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	walk(root, func(n *html.Node) {
		key, ok := rewrittenAttrs[n.DataAtom]
		if !ok {
			return
		}
		for i, attr := range n.Attr {
			if attr.Key != key || !isRelativePath(attr.Val) {
				continue
			}
			abs := filepath.Join(absDir, filepath.FromSlash(attr.Val))
			if !isPathUnderDir(abs, absDir) {
				continue
			}
			n.Attr[i].Val = pathToFileURL(abs)
		}
	})

	return renderHTML(root, isFragment)
}

// parseHTML parses a full document or a body fragment. Fragments are wrapped
// in a bare document node and reported so rendering can unwrap them.
func parseHTML(content string) (*html.Node, bool, error) {
	head := strings.ToLower(strings.TrimSpace(content))
	if strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(content), body)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

func renderHTML(root *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder
	if !isFragment {
		err := html.Render(&buf, root)
		return buf.String(), err
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// walk calls fn for every element node under n, depth first.
func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if u, err := url.Parse(path); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return false // http:, https:, file:, data:, mailto: (single letters are drive names)
	}
	return !filepath.IsAbs(path)
}

// isPathUnderDir reports whether absPath is dir or inside it.
func isPathUnderDir(absPath, dir string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(absPath))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// pathToFileURL converts an absolute path to a file:// URL, Windows paths
// included.
func pathToFileURL(absPath string) string {
	p := filepath.ToSlash(absPath)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/x -> /C:/x
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}
