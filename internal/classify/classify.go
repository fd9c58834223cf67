// Package classify contains the line predicates the tokenizer uses to
// recognize structure in OCR-extracted rulebook text. Every predicate is a
// pure function over a single trimmed line, plus at most one line of
// lookahead.
package classify

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	separatorRe     = regexp.MustCompile(`^={10,}$`)
	pageMarkerRe    = regexp.MustCompile(`^PAGE\s+(\d+)$`)
	creatureLevelRe = regexp.MustCompile(`^CREATURE\s+(-?\d+)(\s*[–—-]\s*\d+)?$`)
	markdownHdrRe   = regexp.MustCompile(`^(#{1,4})\s+(.*)$`)
	pageMetaRe      = regexp.MustCompile(`^Pages?:\s*\d+`)
	orderedItemRe   = regexp.MustCompile(`^\d+[.)]\s`)
	bulletItemRe    = regexp.MustCompile(`^[•\-*+]\s+`)
	bareTraitRe     = regexp.MustCompile(`^[A-Z][A-Z'’\-]{1,19}$`)
	noiseRe         = regexp.MustCompile(`^[pg,\s]+$`)
	allCapsRe       = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 '’\-,.&():;/]+$`)
	creatureNameRe  = regexp.MustCompile(`^[A-Z][A-Z '’\-,()]+$`)

	titleWordRe = regexp.MustCompile(`^[A-Z][\pL'’\-]*$`)

	// Connector words like "of" appear inside ability names, so the glyph
	// form only anchors the first word to Title Case; the glyph itself is
	// the decisive signal.
	abilityGlyphRe = regexp.MustCompile(`^[A-Z][\pL'’\-]*(?:\s+[\pL][\pL'’\-]*)*?\s*[` + ActionGlyphs + `]`)
	abilityParenRe = regexp.MustCompile(`^(?:[A-Z][\pL'’\-]*\s+)+\(`)
	abilityProseRe = regexp.MustCompile(`^(?:[A-Z][\pL'’\-]+\s+){2,}(?:The|An|A|Its|This|It)\b`)
)

// IsSeparator reports whether the line is a page-separator rule (a run of
// ten or more equals signs).
func IsSeparator(line string) bool {
	return separatorRe.MatchString(line)
}

// PageNumber extracts the page number from a "PAGE <n>" marker line.
// The second return value is false when the line is not a page marker.
func PageNumber(line string) (string, bool) {
	m := pageMarkerRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsCreatureLevel reports whether the line is a bare "CREATURE <n>" (or
// "CREATURE <n>-<m>" range) marker.
func IsCreatureLevel(line string) bool {
	return creatureLevelRe.MatchString(line)
}

// MarkdownHeader returns the heading level and text of a markdown header
// line ("#" through "####"). Level 0 means not a header.
func MarkdownHeader(line string) (int, string) {
	m := markdownHdrRe.FindStringSubmatch(line)
	if m == nil {
		return 0, ""
	}
	return len(m[1]), strings.TrimSpace(m[2])
}

// IsPageMetadata reports whether header text is a "Pages: N-N" metadata
// remnant rather than a real heading.
func IsPageMetadata(text string) bool {
	return pageMetaRe.MatchString(text)
}

// IsOrderedItem reports whether the line starts a numbered list item.
func IsOrderedItem(line string) bool {
	return orderedItemRe.MatchString(line)
}

// IsBulletItem reports whether the line starts a bulleted list item.
func IsBulletItem(line string) bool {
	return bulletItemRe.MatchString(line)
}

// StripBullet removes the leading bullet marker from a list-item line.
func StripBullet(line string) string {
	return strings.TrimSpace(bulletItemRe.ReplaceAllString(line, ""))
}

// IsBareTrait reports whether the line is a single short all-caps word, the
// shape creature trait keywords take inside a stat block.
func IsBareTrait(line string) bool {
	return bareTraitRe.MatchString(line)
}

// IsAlignment reports whether the line is exactly an alignment abbreviation.
func IsAlignment(line string) bool {
	return Alignments[line]
}

// IsSize reports whether the line is exactly a size category.
func IsSize(line string) bool {
	return Sizes[line]
}

// StatFieldLabel returns the known field label the line starts with.
// Matching is case-sensitive and requires a word boundary after the label.
func StatFieldLabel(line string) (string, bool) {
	for _, p := range statFieldPrefixes {
		if !strings.HasPrefix(line, p) {
			continue
		}
		if len(line) == len(p) {
			return p, true
		}
		next, _ := utf8.DecodeRuneInString(line[len(p):])
		if !unicode.IsLetter(next) && !unicode.IsDigit(next) {
			return p, true
		}
	}
	return "", false
}

// IsStatField reports whether the line begins with a known stat-block field
// label.
func IsStatField(line string) bool {
	_, ok := StatFieldLabel(line)
	return ok
}

// IsOCRNoise reports whether a short line consists only of the narrow
// character set the scanner's watermark leaves behind, or starts with a known
// garbage fragment. Such lines are dropped without producing a token.
func IsOCRNoise(line string) bool {
	if line == "" || len(line) > 12 {
		return false
	}
	if noiseRe.MatchString(line) {
		return true
	}
	for _, p := range garbagePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// IsRunningHeader reports whether the line is a repeated print artifact: a
// book title with an adjacent page number, as it appears in page headers and
// footers.
func IsRunningHeader(line string) bool {
	upper := strings.ToUpper(line)
	for _, title := range bookTitles {
		if upper == title {
			return true
		}
		if strings.HasPrefix(upper, title) {
			rest := strings.TrimSpace(upper[len(title):])
			if rest != "" && isDigits(rest) {
				return true
			}
		}
		if strings.HasSuffix(upper, title) {
			rest := strings.TrimSpace(upper[:len(upper)-len(title)])
			if rest != "" && isDigits(rest) {
				return true
			}
		}
	}
	return false
}

// IsAllCapsHeader reports whether the line looks like an all-caps section
// header. Stat-field lines and bare alignment/size tokens are excluded even
// though they match the caps pattern.
func IsAllCapsHeader(line string) bool {
	if len(line) < 3 {
		return false
	}
	if !allCapsRe.MatchString(line) {
		return false
	}
	if IsStatField(line) || IsAlignment(line) || IsSize(line) {
		return false
	}
	return len(strings.TrimSpace(line)) > 2
}

// IsCreatureName reports whether line is an all-caps creature name whose next
// line is the "CREATURE <n>" level marker.
func IsCreatureName(line, nextLine string) bool {
	if len(line) < 2 || !creatureNameRe.MatchString(line) {
		return false
	}
	return IsCreatureLevel(strings.TrimSpace(nextLine))
}

// IsAbilityLine reports whether the line looks like the start of a creature
// ability: Title-Case name words followed by an action glyph, an open
// parenthesis, or further Title-Case words and then an article. Callers must
// only trust this inside a stat block; plain prose can match the article form.
func IsAbilityLine(line string) bool {
	if abilityGlyphRe.MatchString(line) {
		return true
	}
	if abilityParenRe.MatchString(line) {
		return true
	}
	return abilityProseRe.MatchString(line)
}

// IsLikelyTitleHeading reports whether line is a short Title-Case heading
// followed by a line of ordinary prose. This catches entry-name headings that
// carry neither markdown hashes nor all-caps styling.
func IsLikelyTitleHeading(line, nextLine string) bool {
	n := len(line)
	if n < 2 || n > 64 {
		return false
	}
	if strings.ContainsAny(line[n-1:], ".!?,;:") {
		return false
	}
	words := strings.Fields(line)
	if len(words) == 0 || len(words) > 6 {
		return false
	}
	for _, w := range words {
		if !titleWordRe.MatchString(w) {
			return false
		}
	}
	// Not one of the other structural shapes.
	if lvl, _ := MarkdownHeader(line); lvl > 0 {
		return false
	}
	if _, ok := PageNumber(line); ok {
		return false
	}
	if IsAllCapsHeader(line) || IsStatField(line) || IsCreatureLevel(line) ||
		IsAlignment(line) || IsSize(line) || IsOrderedItem(line) || IsBulletItem(line) {
		return false
	}
	return looksLikeProse(strings.TrimSpace(nextLine))
}

// looksLikeProse reports whether a line reads as the start of an ordinary
// sentence rather than another structural line.
func looksLikeProse(line string) bool {
	if line == "" {
		return false
	}
	first := []rune(line)[0]
	if !unicode.IsUpper(first) && first != '"' && first != '“' && first != '\'' {
		return false
	}
	if !strings.ContainsFunc(line, unicode.IsLower) {
		return false
	}
	if len(strings.Fields(line)) < 4 {
		return false
	}
	if lvl, _ := MarkdownHeader(line); lvl > 0 {
		return false
	}
	if _, ok := PageNumber(line); ok {
		return false
	}
	if IsSeparator(line) || IsAllCapsHeader(line) || IsStatField(line) ||
		IsOrderedItem(line) || IsBulletItem(line) {
		return false
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
