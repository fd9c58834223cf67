package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
)

// Markdown renders curated markdown to sanitized HTML.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return Sanitize(buf.String()), nil
}

// Sanitize strips active content from an HTML fragment: script and style
// blocks, on* event handler attributes, and javascript:/vbscript: URLs.
// Everything else passes through unchanged.
func Sanitize(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		// Unparseable input is served as text, not dropped.
		return escapeHTML(fragment)
	}
	body := findBody(doc)
	if body == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		scrub(c)
		html.Render(&buf, c)
	}
	return buf.String()
}

var droppedElements = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
}

func scrub(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && droppedElements[c.Data] {
			n.RemoveChild(c)
			continue
		}
		scrub(c)
	}
	if n.Type != html.ElementNode {
		return
	}
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if (key == "href" || key == "src" || key == "action") && unsafeURL(a.Val) {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

func unsafeURL(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:")
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
