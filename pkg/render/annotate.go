package render

import (
	"html"
	"strings"
)

// annotate wraps rendered text for in-place editing tools.
func annotate(addr, original, text string) string {
	var b strings.Builder
	b.Grow(len(addr) + len(original) + len(text) + 48)
	b.WriteString(`<edit data-key="`)
	b.WriteString(html.EscapeString(addr))
	b.WriteString(`" data-original="`)
	b.WriteString(html.EscapeString(original))
	b.WriteString(`">`)
	b.WriteString(text)
	b.WriteString(`</edit>`)
	return b.String()
}
