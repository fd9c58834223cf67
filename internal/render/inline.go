package render

import (
	"regexp"
	"strings"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

var (
	boldRe   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicRe = regexp.MustCompile(`\*(.+?)\*`)
	codeRe   = regexp.MustCompile("`(.+?)`")
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// processInline escapes the text and then applies the literal markdown-style
// emphasis markers in fixed order: **bold**, *italic*, `code`. Replacement is
// non-greedy and does not nest.
func processInline(s string) string {
	s = escapeHTML(s)
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")
	s = codeRe.ReplaceAllString(s, "<code>$1</code>")
	return s
}
