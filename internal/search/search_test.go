package search

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEngine(t *testing.T, extracted, rules map[string]string) *Engine {
	t.Helper()
	extractedDir := t.TempDir()
	rulesDir := t.TempDir()
	for name, content := range extracted {
		writeFile(t, filepath.Join(extractedDir, name), content)
	}
	for name, content := range rules {
		writeFile(t, filepath.Join(rulesDir, name), content)
	}
	return NewEngine(extractedDir, rulesDir, time.Minute, 20, discardLogger())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Fireball: 2d6 fire damage, DC 25!")
	want := []string{"fireball", "2d6", "fire", "damage", "dc", "25"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}
	if got := Tokens("a I x"); got != nil {
		t.Errorf("single-char tokens should be dropped, got %v", got)
	}
}

func TestSearchSingleMatch(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"spells.txt":   "PAGE 7\n\nFireball deals 6d6 fire damage in a burst.\n",
		"monsters.txt": "PAGE 3\n\nThe arbiter watches over its charges.\n",
	}, map[string]string{
		"crafting.md": "# Crafting\n\nRepairing items takes time.\n",
	})

	res, err := e.Search("fireball")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || len(res.Results) != 1 {
		t.Fatalf("got %d results (total %d), want 1", len(res.Results), res.Total)
	}
	r := res.Results[0]
	if r.Path != "spells.txt" || r.Kind != "txt" || r.Name != "spells" {
		t.Errorf("result = %+v", r)
	}
	if r.Score != verbatimScore {
		t.Errorf("score = %d, want %d", r.Score, verbatimScore)
	}
	if r.BestPage != 7 {
		t.Errorf("best page = %d, want 7", r.BestPage)
	}
	if len(r.Snippets) != 1 || r.Snippets[0].Page != 7 {
		t.Fatalf("snippets = %+v", r.Snippets)
	}
}

func TestSearchVerbatimOutranksScattered(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"a.txt": "PAGE 1\n\nThe magic missile spell always hits its target.\n",
		"b.txt": "PAGE 1\n\nA missile of pure magic streaks out.\n",
	}, nil)

	res, err := e.Search("magic missile")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(res.Results))
	}
	if res.Results[0].Path != "a.txt" {
		t.Errorf("verbatim match should rank first, got %s", res.Results[0].Path)
	}
	if res.Results[0].Score <= res.Results[1].Score {
		t.Errorf("scores = %d, %d", res.Results[0].Score, res.Results[1].Score)
	}
}

func TestSearchNameTieBreak(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"10_Treasure.txt":   "PAGE 1\n\nA glowing rune marks the vault.\n",
		"2_Ancestries.txt":  "PAGE 1\n\nA glowing rune marks the lineage.\n",
		"3_Backgrounds.txt": "PAGE 1\n\nNothing relevant here at all.\n",
	}, nil)

	res, err := e.Search("glowing rune")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(res.Results))
	}
	if res.Results[0].Name != "Ancestries" || res.Results[1].Name != "Treasure" {
		t.Errorf("tie should break by natural name order, got %s, %s",
			res.Results[0].Name, res.Results[1].Name)
	}
}

func TestSearchSnippetCap(t *testing.T) {
	text := "PAGE 1\n\n"
	for range 6 {
		text += "The shadow lodge keeps watch.\nOther filler prose line.\n"
	}
	e := newTestEngine(t, map[string]string{"lodge.txt": text}, nil)

	res, err := e.Search("shadow lodge")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 1 {
		t.Fatalf("got %d results", len(res.Results))
	}
	r := res.Results[0]
	if len(r.Snippets) > maxSnippets {
		t.Errorf("%d snippets, cap is %d", len(r.Snippets), maxSnippets)
	}
	// Six matching lines keep scoring even though snippets are capped.
	if r.Score != 6*verbatimScore {
		t.Errorf("score = %d, want %d", r.Score, 6*verbatimScore)
	}
	for _, s := range r.Snippets {
		if len(s.Text) > snippetMaxChars+len("…") {
			t.Errorf("snippet too long: %d chars", len(s.Text))
		}
	}
}

func TestSearchResultCapAndTotal(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a.txt", "b.txt", "c.txt", "d.txt"} {
		files[name] = "PAGE 1\n\nThe kraken stirs beneath the waves.\n"
	}
	extractedDir := t.TempDir()
	for name, content := range files {
		writeFile(t, filepath.Join(extractedDir, name), content)
	}
	e := NewEngine(extractedDir, t.TempDir(), time.Minute, 2, discardLogger())

	res, err := e.Search("kraken")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 2 {
		t.Errorf("got %d results, want capped 2", len(res.Results))
	}
	if res.Total != 4 {
		t.Errorf("total = %d, want 4", res.Total)
	}
}

func TestSearchEmptyAndUnknown(t *testing.T) {
	e := newTestEngine(t, map[string]string{
		"a.txt": "PAGE 1\n\nSome prose.\n",
	}, nil)

	for _, q := range []string{"", "   ", "!!", "x"} {
		res, err := e.Search(q)
		if err != nil {
			t.Fatalf("Search(%q): %v", q, err)
		}
		if res.Results == nil || len(res.Results) != 0 {
			t.Errorf("Search(%q) = %v, want empty non-nil", q, res.Results)
		}
	}

	res, err := e.Search("zzyzx")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 0 || res.Total != 0 {
		t.Errorf("unknown token: %+v", res)
	}
}

func TestSearchScatteredSingleTokensDoNotSnippet(t *testing.T) {
	// One token per line is below the snippet threshold; the document does
	// not qualify even though both tokens appear somewhere in it.
	e := newTestEngine(t, map[string]string{
		"a.txt": "PAGE 1\n\nOnly magic appears here.\nfiller\nfiller\nfiller\nOnly missile appears here.\n",
	}, nil)

	res, err := e.Search("magic missile")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 0 {
		t.Errorf("got %d results, want 0: %+v", len(res.Results), res.Results)
	}
}

func TestSearchMarkdownDocs(t *testing.T) {
	e := newTestEngine(t, nil, map[string]string{
		"combat.md": "# Combat\n\nInitiative uses Perception by default.\n",
	})

	res, err := e.Search("initiative")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Results) != 1 {
		t.Fatalf("got %d results", len(res.Results))
	}
	r := res.Results[0]
	if r.Kind != "md" || r.BestPage != 0 {
		t.Errorf("markdown result = %+v", r)
	}
}

func TestSearchIndexUnavailable(t *testing.T) {
	e := NewEngine(filepath.Join(t.TempDir(), "missing"), t.TempDir(), time.Minute, 20, discardLogger())
	_, err := e.Search("anything")
	if !errors.Is(err, ErrIndexUnavailable) {
		t.Errorf("err = %v, want ErrIndexUnavailable", err)
	}
}

func TestIntersect(t *testing.T) {
	got := intersect([]int{1, 3, 5, 7}, []int{2, 3, 4, 7, 9})
	if !reflect.DeepEqual(got, []int{3, 7}) {
		t.Errorf("intersect = %v", got)
	}
	if got := intersect([]int{1, 2}, []int{3, 4}); got != nil {
		t.Errorf("disjoint intersect = %v, want nil", got)
	}
}
