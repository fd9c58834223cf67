package tokenize

import (
	"strings"
	"testing"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func nonBlank(toks []Token) []Token {
	var out []Token
	for _, t := range toks {
		if t.Kind != Blank {
			out = append(out, t)
		}
	}
	return out
}

func TestTokenizeStatBlock(t *testing.T) {
	input := "PAGE 5\nARBITER\nCREATURE 7\nLG MEDIUM\nPerception +17; darkvision\n" +
		"AC 27, Fortitude +19, Reflex +15, Will +18\nHP 150\n" +
		"Electrical Burst ◆ (divine, electricity) The arbiter blasts nearby foes."

	toks := Tokenize(input)

	want := []struct {
		kind    Kind
		content string
	}{
		{PageMarker, "5"},
		{CreatureName, "ARBITER"},
		{CreatureLevel, "CREATURE 7"},
		{CreatureAlignment, "LG"},
		{CreatureSize, "MEDIUM"},
		{StatField, "Perception +17; darkvision"},
		{StatField, "AC 27, Fortitude +19, Reflex +15, Will +18"},
		{StatField, "HP 150"},
		{Ability, "Electrical Burst ◆ (divine, electricity) The arbiter blasts nearby foes."},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), kinds(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Content != w.content {
			t.Errorf("token[%d] = %s %q, want %s %q", i, toks[i].Kind, toks[i].Content, w.kind, w.content)
		}
	}
}

func TestTokenizeMarkdownHeaderAndParagraph(t *testing.T) {
	toks := Tokenize("# Skills\nSkills represent training.\n")
	if len(toks) < 2 {
		t.Fatalf("got %v", kinds(toks))
	}
	if toks[0].Kind != Header || toks[0].Level != 1 || toks[0].Content != "Skills" {
		t.Errorf("token[0] = %+v, want level-1 header \"Skills\"", toks[0])
	}
	if toks[1].Kind != Paragraph || toks[1].Content != "Skills represent training." {
		t.Errorf("token[1] = %+v, want paragraph", toks[1])
	}
}

func TestTokenizePageMetadataHeaderSkipped(t *testing.T) {
	toks := nonBlank(Tokenize("## Pages: 12-40\nSome prose follows here.\n"))
	if len(toks) != 1 || toks[0].Kind != Paragraph {
		t.Fatalf("got %v, want a single paragraph", kinds(toks))
	}
}

func TestTokenizeSeparatorAndRunningHeaderDropped(t *testing.T) {
	toks := nonBlank(Tokenize("==========\nCORE RULEBOOK 283\nOrdinary prose on this page."))
	if len(toks) != 1 || toks[0].Kind != Paragraph {
		t.Fatalf("got %v, want one paragraph", kinds(toks))
	}
}

func TestTokenizeParagraphMergesContinuations(t *testing.T) {
	toks := nonBlank(Tokenize("This paragraph continues\nonto a second line\nand a third.\n\nNext paragraph."))
	if len(toks) != 2 {
		t.Fatalf("got %v, want two paragraphs", kinds(toks))
	}
	if toks[0].Content != "This paragraph continues onto a second line and a third." {
		t.Errorf("merged content = %q", toks[0].Content)
	}
}

func TestTokenizeContinuationSkipsNoise(t *testing.T) {
	toks := nonBlank(Tokenize("This paragraph continues\np, g\nright past noise lines."))
	if len(toks) != 1 {
		t.Fatalf("got %v, want one paragraph", kinds(toks))
	}
	if toks[0].Content != "This paragraph continues right past noise lines." {
		t.Errorf("content = %q", toks[0].Content)
	}
}

func TestTokenizeStatFieldGateOutsideBlock(t *testing.T) {
	// A lone TOC entry must not open a stat block.
	toks := nonBlank(Tokenize("Skills\nMore table of contents text follows afterwards."))
	for _, tok := range toks {
		if tok.Kind == StatField {
			t.Fatalf("lone %q line became a stat field", "Skills")
		}
	}

	// A long field line opens a block even without a creature name.
	toks = nonBlank(Tokenize("Skills Acrobatics +9, Axis Lore +5, Diplomacy +6"))
	if len(toks) != 1 || toks[0].Kind != StatField {
		t.Fatalf("got %v, want one stat field", kinds(toks))
	}
}

func TestTokenizeAbilityOnlyInsideBlock(t *testing.T) {
	// The article form of an ability line matches plain prose shapes, so it
	// is only honored inside a stat block.
	prose := "Divine Guidance The arbiter watches over its charges."
	toks := nonBlank(Tokenize(prose))
	if toks[0].Kind != Paragraph {
		t.Errorf("outside a block got %s, want paragraph", toks[0].Kind)
	}

	toks = nonBlank(Tokenize("HP 150, Immunities death effects\n" + prose))
	if len(toks) != 2 || toks[1].Kind != Ability {
		t.Errorf("inside a block got %v, want stat-field then ability", kinds(toks))
	}
}

func TestTokenizeAllCapsInsidePopulatedBlock(t *testing.T) {
	// A short all-caps line inside a populated block is a trait keyword and
	// leaves the block open; the next field must still be recognized.
	input := "ARBITER\nCREATURE 7\nHP 150\nEVOCATION\nSpeed 25 feet"
	toks := Tokenize(input)
	want := []Kind{CreatureName, CreatureLevel, StatField, CreatureTrait, StatField}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTokenizeAllCapsClosesEmptyBlock(t *testing.T) {
	// The same all-caps line right after a creature name (no fields yet)
	// ends the block, so a following prose-shaped line is a paragraph.
	input := "ARBITER\nCREATURE 7\nAXIS MONITORS\nDivine Guidance The arbiter watches over its charges."
	toks := Tokenize(input)
	last := toks[len(toks)-1]
	if last.Kind != Paragraph {
		t.Errorf("got %v, want trailing paragraph", kinds(toks))
	}
}

func TestTokenizeHeaderLevels(t *testing.T) {
	toks := nonBlank(Tokenize("ANCESTRIES AND BACKGROUNDS\nWAR\n"))
	if len(toks) != 2 {
		t.Fatalf("got %v", kinds(toks))
	}
	if toks[0].Kind != Header || toks[0].Level != 2 {
		t.Errorf("long caps header = %+v, want level 2", toks[0])
	}
	if toks[1].Kind != Header || toks[1].Level != 3 {
		t.Errorf("short caps header = %+v, want level 3", toks[1])
	}
}

func TestTokenizeLikelyTitleHeading(t *testing.T) {
	input := "Wandering Initiative\nThe arbiter is a small construct built to watch for planar incursions."
	toks := nonBlank(Tokenize(input))
	if len(toks) != 2 {
		t.Fatalf("got %v", kinds(toks))
	}
	if toks[0].Kind != Header || toks[0].Level != 3 || toks[0].Content != "Wandering Initiative" {
		t.Errorf("token[0] = %+v, want level-3 header", toks[0])
	}
}

func TestTokenizeLists(t *testing.T) {
	toks := nonBlank(Tokenize("• first point\n- second point\n1. numbered\n2) also numbered"))
	want := []Kind{ListItem, ListItem, OrderedItem, OrderedItem}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if toks[0].Content != "first point" {
		t.Errorf("bullet marker not stripped: %q", toks[0].Content)
	}
	if toks[2].Content != "1. numbered" {
		t.Errorf("ordered marker must be kept: %q", toks[2].Content)
	}
}

func TestTokenizeLongParagraphAfterPageBreakEndsBlock(t *testing.T) {
	input := "ARBITER\nCREATURE 7\nHP 150\nPAGE 6\n" +
		"This is completely unrelated flavor text that happens to follow the page break and runs long."
	toks := Tokenize(input)
	// The paragraph is present and the tokenizer no longer treats the text
	// as part of the stat block: a subsequent prose-shaped ability line must
	// come out as a paragraph.
	followOn := Tokenize(input + "\nDivine Guidance The arbiter watches over its charges.")
	last := followOn[len(followOn)-1]
	if last.Kind != Paragraph {
		t.Errorf("block should have ended at the page break, got %v", kinds(followOn))
	}
	if toks[len(toks)-1].Kind != Paragraph {
		t.Errorf("got %v, want trailing paragraph", kinds(toks))
	}
}

func TestTokenizeTotality(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"   \t  ",
		"\x00\x01binary\xffgarbage\x00",
		strings.Repeat("A", 10000),
		"PAGE\nCREATURE\n####\n**",
	}
	for _, in := range inputs {
		toks := Tokenize(in) // must not panic
		for _, tok := range toks {
			if tok.Kind == "" {
				t.Errorf("empty kind for input %q", in)
			}
		}
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	toks := Tokenize("")
	if len(toks) != 1 || toks[0].Kind != Blank {
		t.Errorf("got %v, want a single blank token", kinds(toks))
	}
}
