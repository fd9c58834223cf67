// Package render turns token sequences into HTML. The renderer is a single
// forward pass that tracks which block containers are open (stat-block div,
// unordered list, ordered list) and closes them on context changes; all
// containers close at end of stream, so output is always balanced.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/00d/grimoire/internal/classify"
	"github.com/00d/grimoire/internal/tokenize"
)

// Text converts raw extracted text to HTML.
func Text(text string) string {
	return HTML(tokenize.Tokenize(text))
}

// HTML renders a token sequence as newline-joined block elements.
func HTML(tokens []tokenize.Token) string {
	r := &renderer{}
	for _, tok := range tokens {
		r.render(tok)
	}
	r.closeLists()
	r.closeBlock()
	return strings.Join(r.out, "\n")
}

type renderer struct {
	out []string

	inBlock   bool
	inUL      bool
	inOL      bool
	prevBlank int
}

func (r *renderer) render(tok tokenize.Token) {
	if tok.Kind == tokenize.Blank {
		r.prevBlank++
		return
	}
	defer func() { r.prevBlank = 0 }()

	if tok.Kind != tokenize.ListItem {
		r.closeUL()
	}
	if tok.Kind != tokenize.OrderedItem {
		r.closeOL()
	}

	switch tok.Kind {
	case tokenize.PageMarker:
		r.closeBlock()
		r.emit(fmt.Sprintf(`<div class="page-marker" id="page-%s">Page %s</div>`, tok.Content, tok.Content))

	case tokenize.Header:
		r.closeBlock()
		level := tok.Level
		if level == 0 {
			level = 2
		}
		class := "section-header"
		if level > 2 {
			class = "subsection-header"
		}
		r.emit(fmt.Sprintf(`<h%d class="%s">%s</h%d>`, level, class, processInline(tok.Content), level))

	case tokenize.CreatureName:
		r.closeBlock()
		r.openBlock()
		r.emit(`<h3 class="creature-name">` + escapeHTML(tok.Content) + `</h3>`)

	case tokenize.CreatureLevel:
		r.emit(`<span class="creature-level">` + escapeHTML(tok.Content) + `</span>`)
	case tokenize.CreatureAlignment:
		r.emit(`<span class="creature-alignment">` + escapeHTML(tok.Content) + `</span>`)
	case tokenize.CreatureSize:
		r.emit(`<span class="creature-size">` + escapeHTML(tok.Content) + `</span>`)
	case tokenize.CreatureTrait:
		r.emit(`<span class="creature-trait">` + escapeHTML(tok.Content) + `</span>`)

	case tokenize.StatField:
		r.openBlock()
		label, rest := splitStatField(tok.Content)
		if rest == "" {
			r.emit(`<div class="stat-field"><strong>` + escapeHTML(label) + `</strong></div>`)
		} else {
			r.emit(`<div class="stat-field"><strong>` + escapeHTML(label) + `</strong> ` + processInline(rest) + `</div>`)
		}

	case tokenize.Ability:
		r.openBlock()
		r.emit(renderAbility(tok.Content))

	case tokenize.ListItem:
		if !r.inUL {
			r.emit("<ul>")
			r.inUL = true
		}
		r.emit("<li>" + processInline(tok.Content) + "</li>")

	case tokenize.OrderedItem:
		if !r.inOL {
			r.emit("<ol>")
			r.inOL = true
		}
		r.emit("<li>" + processInline(tok.Content) + "</li>")

	case tokenize.Paragraph:
		// A long paragraph after at least one blank line means the open stat
		// block is over; a short run-on belongs to it as description text.
		if r.inBlock && r.prevBlank > 0 && len(tok.Content) > 40 {
			r.closeBlock()
		}
		if r.inBlock {
			r.emit(`<div class="stat-description">` + processInline(tok.Content) + `</div>`)
		} else {
			r.emit("<p>" + processInline(tok.Content) + "</p>")
		}
	}
}

func (r *renderer) emit(s string) {
	r.out = append(r.out, s)
}

func (r *renderer) openBlock() {
	if !r.inBlock {
		r.emit(`<div class="stat-block">`)
		r.inBlock = true
	}
}

func (r *renderer) closeBlock() {
	if r.inBlock {
		r.emit("</div>")
		r.inBlock = false
	}
}

func (r *renderer) closeUL() {
	if r.inUL {
		r.emit("</ul>")
		r.inUL = false
	}
}

func (r *renderer) closeOL() {
	if r.inOL {
		r.emit("</ol>")
		r.inOL = false
	}
}

func (r *renderer) closeLists() {
	r.closeUL()
	r.closeOL()
}

// splitStatField separates a stat field into its label and value. Known
// multi-word labels match as literal prefixes; otherwise the label is the
// leading run of letters.
func splitStatField(content string) (label, rest string) {
	for _, l := range classify.MultiWordLabels {
		if strings.HasPrefix(content, l) {
			return l, strings.TrimSpace(content[len(l):])
		}
	}
	i := 0
	for i < len(content) {
		c := content[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			break
		}
		i++
	}
	if i == 0 {
		return content, ""
	}
	return content[:i], strings.TrimSpace(content[i:])
}

var abilityFullRe = regexp.MustCompile(`^([A-Z][\pL'’\-]*(?:\s+[\pL][\pL'’\-]*)*?)\s*([` + classify.ActionGlyphs + `]+(?:\s*\([^)]*\))?)\s*(.*)$`)

var (
	abilityArticleRe = regexp.MustCompile(`\b(The|An|A|Its|This|It)\b`)
	titleRunRe       = regexp.MustCompile(`[A-Z][a-z]+`)
)

// renderAbility structures an ability as name, action glyph (with optional
// trait parenthetical), and description. When the full shape does not match,
// it falls back to splitting at the first article, then at the first
// Title-Case run, and finally gives up and emits the content whole.
func renderAbility(content string) string {
	if m := abilityFullRe.FindStringSubmatch(content); m != nil {
		var b strings.Builder
		b.WriteString(`<div class="ability"><strong class="ability-name">`)
		b.WriteString(escapeHTML(m[1]))
		b.WriteString(`</strong> <span class="action-glyph">`)
		b.WriteString(escapeHTML(m[2]))
		b.WriteString(`</span>`)
		if m[3] != "" {
			b.WriteString(" ")
			b.WriteString(processInline(m[3]))
		}
		b.WriteString(`</div>`)
		return b.String()
	}
	if loc := abilityArticleRe.FindStringIndex(content); loc != nil && loc[0] > 0 {
		name := strings.TrimSpace(content[:loc[0]])
		desc := content[loc[0]:]
		return `<div class="ability"><strong class="ability-name">` + escapeHTML(name) + `</strong> ` + processInline(desc) + `</div>`
	}
	if loc := titleRunRe.FindStringIndex(content); loc != nil && loc[0] > 0 {
		name := strings.TrimSpace(content[:loc[0]])
		desc := content[loc[0]:]
		return `<div class="ability"><strong class="ability-name">` + escapeHTML(name) + `</strong> ` + processInline(desc) + `</div>`
	}
	return `<div class="ability">` + processInline(content) + `</div>`
}
