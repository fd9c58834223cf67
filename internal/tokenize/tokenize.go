// Package tokenize turns raw page-delimited rulebook text into an ordered
// token sequence. The scan is a single left-to-right pass over lines; the only
// carried state is whether the scan currently sits inside a creature stat
// block. Classification rules run in a fixed priority order and the first
// match wins — the order is part of the contract, since reordering changes
// output on ambiguous lines. Unrecognized content always falls through to
// Paragraph, so tokenizing never fails.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/00d/grimoire/internal/classify"
)

// Tokenize converts document text into its token sequence.
func Tokenize(text string) []Token {
	t := &tokenizer{lines: strings.Split(text, "\n")}
	t.run()
	return t.toks
}

type tokenizer struct {
	lines []string
	toks  []Token
	i     int

	// inBlock is true while the run of tokens since blockStart plausibly
	// belongs to one creature stat block.
	inBlock    bool
	blockStart int
}

func (t *tokenizer) run() {
	for t.i < len(t.lines) {
		line := strings.TrimSpace(t.lines[t.i])
		next := t.peek(1)

		switch {
		case line == "":
			t.emit(Token{Kind: Blank})
			t.i++

		case classify.IsSeparator(line):
			t.i++

		case t.pageMarker(line):

		case classify.IsOCRNoise(line):
			t.i++

		case classify.IsRunningHeader(line):
			t.i++

		case t.markdownHeader(line):

		case classify.IsLikelyTitleHeading(line, next):
			t.inBlock = false
			t.emit(Token{Kind: Header, Content: line, Level: 3})
			t.i++

		case classify.IsCreatureName(line, next):
			t.blockStart = len(t.toks)
			t.inBlock = true
			t.emit(Token{Kind: CreatureName, Content: line})
			t.i++

		case classify.IsCreatureLevel(line):
			t.emit(Token{Kind: CreatureLevel, Content: line})
			t.i++

		case t.alignmentSizeRun(line):

		case t.statField(line):

		case t.inBlock && classify.IsAbilityLine(line):
			content := t.consume(statBlockBoundary)
			t.emit(Token{Kind: Ability, Content: content})

		case classify.IsOrderedItem(line):
			t.emit(Token{Kind: OrderedItem, Content: line})
			t.i++

		case classify.IsBulletItem(line):
			t.emit(Token{Kind: ListItem, Content: classify.StripBullet(line)})
			t.i++

		case t.inBlock && classify.IsBareTrait(line):
			t.emit(Token{Kind: CreatureTrait, Content: line})
			t.i++

		case classify.IsAllCapsHeader(line):
			// A short all-caps line inside an already-populated block is
			// trait-like and must not close it; outside one it is a header
			// that ends whatever block was open.
			if t.inBlock && !t.blockPopulated() {
				t.inBlock = false
			}
			level := 3
			if len(line) > 10 {
				level = 2
			}
			t.emit(Token{Kind: Header, Content: line, Level: level})
			t.i++

		default:
			t.paragraph()
		}
	}
}

func (t *tokenizer) emit(tok Token) {
	t.toks = append(t.toks, tok)
}

// peek returns the trimmed line at offset d from the cursor, or "" past EOF.
func (t *tokenizer) peek(d int) string {
	if t.i+d >= len(t.lines) {
		return ""
	}
	return strings.TrimSpace(t.lines[t.i+d])
}

func (t *tokenizer) pageMarker(line string) bool {
	n, ok := classify.PageNumber(line)
	if !ok {
		return false
	}
	t.emit(Token{Kind: PageMarker, Content: n})
	t.i++
	return true
}

func (t *tokenizer) markdownHeader(line string) bool {
	level, text := classify.MarkdownHeader(line)
	if level == 0 {
		return false
	}
	t.inBlock = false
	// "Pages: N-N" remnants from the extraction pass are metadata, not
	// headings.
	if !classify.IsPageMetadata(text) {
		t.emit(Token{Kind: Header, Content: text, Level: level})
	}
	t.i++
	return true
}

// alignmentSizeRun handles lines made entirely of alignment and size codes,
// such as "LG MEDIUM", emitting one token per code.
func (t *tokenizer) alignmentSizeRun(line string) bool {
	fields := strings.Fields(line)
	hasAlign := false
	for _, f := range fields {
		switch {
		case classify.IsAlignment(f):
			hasAlign = true
		case classify.IsSize(f):
		default:
			return false
		}
	}
	// A lone size word is still a size token; require at least one known
	// code either way.
	if len(fields) == 0 || (!hasAlign && !classify.IsSize(fields[0])) {
		return false
	}
	for _, f := range fields {
		if classify.IsAlignment(f) {
			t.emit(Token{Kind: CreatureAlignment, Content: f})
		} else {
			t.emit(Token{Kind: CreatureSize, Content: f})
		}
	}
	t.i++
	return true
}

func (t *tokenizer) statField(line string) bool {
	if !t.isLiveStatField(line) {
		return false
	}
	if !t.inBlock {
		t.inBlock = true
		t.blockStart = len(t.toks)
	}
	content := t.consume(statBlockBoundary)
	t.emit(Token{Kind: StatField, Content: content})
	return true
}

// isLiveStatField decides whether a field-labeled line is a live stat field.
// Inside a block the label alone is enough. Outside one, short lines (a lone
// table-of-contents "Skills") and label-plus-prose lines ("Skills represent
// training.") are not fields.
func (t *tokenizer) isLiveStatField(line string) bool {
	label, ok := classify.StatFieldLabel(line)
	if !ok {
		return false
	}
	if t.inBlock {
		return true
	}
	if len(line) <= 15 {
		return false
	}
	rest := strings.TrimSpace(line[len(label):])
	if rest != "" {
		r, _ := utf8.DecodeRuneInString(rest)
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func (t *tokenizer) paragraph() {
	content := t.consume(t.paragraphBoundary)
	if t.inBlock && len(content) > 50 {
		// A substantial paragraph right after a page break or header is the
		// start of unrelated prose, not more stat-block text.
		prev := t.lastNonBlank()
		if prev == nil || prev.Kind == PageMarker || prev.Kind == Header {
			t.inBlock = false
		}
	}
	t.emit(Token{Kind: Paragraph, Content: content})
}

// consume takes the current line plus every following continuation line until
// the boundary predicate fires, joining them with single spaces. OCR noise
// lines are skipped mid-run without ending it.
func (t *tokenizer) consume(boundary func(line, next string) bool) string {
	parts := []string{strings.TrimSpace(t.lines[t.i])}
	t.i++
	for t.i < len(t.lines) {
		line := strings.TrimSpace(t.lines[t.i])
		if line != "" && classify.IsOCRNoise(line) {
			t.i++
			continue
		}
		if boundary(line, t.peek(1)) {
			break
		}
		parts = append(parts, line)
		t.i++
	}
	return strings.Join(parts, " ")
}

// statBlockBoundary ends stat-field and ability continuations.
func statBlockBoundary(line, next string) bool {
	if line == "" || classify.IsSeparator(line) {
		return true
	}
	if _, ok := classify.PageNumber(line); ok {
		return true
	}
	return classify.IsStatField(line) ||
		classify.IsAllCapsHeader(line) ||
		classify.IsCreatureName(line, next) ||
		classify.IsAbilityLine(line)
}

// paragraphBoundary ends plain paragraph continuations.
func (t *tokenizer) paragraphBoundary(line, next string) bool {
	if line == "" || classify.IsSeparator(line) || classify.IsRunningHeader(line) {
		return true
	}
	if _, ok := classify.PageNumber(line); ok {
		return true
	}
	if level, _ := classify.MarkdownHeader(line); level > 0 {
		return true
	}
	if t.inBlock && classify.IsAbilityLine(line) {
		return true
	}
	return classify.IsOrderedItem(line) ||
		classify.IsBulletItem(line) ||
		t.isLiveStatField(line) ||
		classify.IsAllCapsHeader(line) ||
		classify.IsCreatureName(line, next) ||
		classify.IsCreatureLevel(line) ||
		classify.IsAlignment(line) ||
		classify.IsSize(line) ||
		classify.IsLikelyTitleHeading(line, next)
}

// blockPopulated reports whether the tokens emitted since the current block
// start include at least one stat field or ability.
func (t *tokenizer) blockPopulated() bool {
	for _, tok := range t.toks[t.blockStart:] {
		if tok.Kind == StatField || tok.Kind == Ability {
			return true
		}
	}
	return false
}

func (t *tokenizer) lastNonBlank() *Token {
	for i := len(t.toks) - 1; i >= 0; i-- {
		if t.toks[i].Kind != Blank {
			return &t.toks[i]
		}
	}
	return nil
}
