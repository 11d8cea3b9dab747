package pipeline

import "strings"

// InjectCSS inserts css as a <style> block: before </head> if present, else
// right after <body ...>, else at the start. Empty css returns htmlContent
// unchanged.
func InjectCSS(htmlContent, css string) string {
	if css == "" {
		return htmlContent
	}

	block := "<style>" + sanitizeCSS(css) + "</style>"
	lower := strings.ToLower(htmlContent)

	if idx := strings.Index(lower, "</head>"); idx != -1 {
		return htmlContent[:idx] + block + htmlContent[idx:]
	}

	if idx := strings.Index(lower, "<body"); idx != -1 {
		if end := strings.IndexByte(htmlContent[idx:], '>'); end != -1 {
			pos := idx + end + 1
			return htmlContent[:pos] + block + htmlContent[pos:]
		}
	}

	return block + htmlContent
}

// sanitizeCSS escapes "</" so the stylesheet cannot close its <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
