package classify

import "sort"

// The vocabularies below are closed enumerations taken from the rulebook
// family this corpus was extracted from. They are data, not logic: retargeting
// the classifier to another ruleset means editing these tables only.

// Alignments holds the two- and one-letter alignment abbreviations that appear
// as bare lines inside creature stat blocks.
var Alignments = map[string]bool{
	"LG": true, "NG": true, "CG": true,
	"LN": true, "N": true, "CN": true,
	"LE": true, "NE": true, "CE": true,
	"TN": true,
}

// Sizes holds the creature size categories.
var Sizes = map[string]bool{
	"TINY":       true,
	"SMALL":      true,
	"MEDIUM":     true,
	"LARGE":      true,
	"HUGE":       true,
	"GARGANTUAN": true,
}

// statFieldPrefixes are the known stat-block field labels. Matching is
// case-sensitive prefix plus word boundary, so "Str +5" matches but
// "Striking rune" does not.
var statFieldPrefixes = []string{
	"AC",
	"HP",
	"Hardness",
	"Perception",
	"Languages",
	"Skills",
	"Items",
	"Speed",
	"Melee",
	"Ranged",
	"Str",
	"Fort",
	"Ref",
	"Will",
	"Immunities",
	"Resistances",
	"Weaknesses",
	"Saving Throws",
	"Divine Innate Spells",
	"Arcane Innate Spells",
	"Occult Innate Spells",
	"Primal Innate Spells",
	"Rituals",
}

// MultiWordLabels are field labels the renderer must recognize as a unit when
// splitting a stat field into label and value.
var MultiWordLabels = []string{
	"Saving Throws",
	"Breath Weapon",
	"Divine Innate Spells",
	"Arcane Innate Spells",
	"Occult Innate Spells",
	"Primal Innate Spells",
}

// ActionGlyphs are the action/reaction symbols that survive PDF extraction.
const ActionGlyphs = "◆◇↺↻"

// bookTitles are the running page header/footer texts of the source books.
// A line consisting of one of these plus a page number is a print artifact.
var bookTitles = []string{
	"CORE RULEBOOK",
	"BESTIARY",
	"BESTIARY 2",
	"ADVANCED PLAYER'S GUIDE",
	"ADVANCED PLAYER’S GUIDE",
	"GAMEMASTERY GUIDE",
	"DARK ARCHIVE",
	"GUNS & GEARS",
}

// garbagePrefixes are watermark fragments the OCR pass leaves behind on
// otherwise empty lines.
var garbagePrefixes = []string{
	"ggyj",
	"l Wi di",
	"<Wi",
	"j dh",
	"d@",
}

func init() {
	// Longest prefix wins, e.g. "Saving Throws" before "Str"-adjacent labels.
	sort.Slice(statFieldPrefixes, func(i, j int) bool {
		return len(statFieldPrefixes[i]) > len(statFieldPrefixes[j])
	})
	sort.Slice(MultiWordLabels, func(i, j int) bool {
		return len(MultiWordLabels[i]) > len(MultiWordLabels[j])
	})
}
