package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractTitle returns the text of the first non-empty <title>, or failing
// that the first non-empty <h1>. Whitespace is collapsed; "" means neither
// was found.
func ExtractTitle(htmlContent string) string {
	z := html.NewTokenizer(strings.NewReader(htmlContent))

	var h1 string
	var capture atom.Atom
	var text strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			return h1
		case html.StartTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if capture == 0 && (a == atom.Title || (a == atom.H1 && h1 == "")) {
				capture = a
				text.Reset()
			}
		case html.TextToken:
			if capture != 0 {
				text.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if capture == 0 || atom.Lookup(name) != capture {
				continue
			}
			s := strings.Join(strings.Fields(text.String()), " ")
			if capture == atom.Title && s != "" {
				return s
			}
			if capture == atom.H1 && h1 == "" {
				h1 = s
			}
			capture = 0
		}
	}
}
