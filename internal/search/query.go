package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/00d/grimoire/internal/natsort"
)

const (
	verbatimScore   = 6
	maxSnippets     = 3
	snippetMaxChars = 220
)

// Result is one ranked document match.
type Result struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Snippets []Snippet `json:"snippets"`
	BestPage int       `json:"bestPage,omitempty"`
	Score    int       `json:"score"`
}

// Snippet is a matching line with one line of context on each side.
type Snippet struct {
	Text string `json:"text"`
	Page int    `json:"page,omitempty"`
}

// Results is a ranked page of matches plus the total candidate count.
type Results struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
}

// Search answers a keyword query against the cached index.
func (e *Engine) Search(query string) (*Results, error) {
	idx, err := e.index.Get()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexUnavailable, err)
	}

	phrase := strings.ToLower(strings.TrimSpace(query))
	tokens := dedup(Tokens(phrase))
	if len(tokens) == 0 {
		return &Results{Results: []Result{}}, nil
	}

	candidates := candidateDocs(idx, tokens)
	var results []Result
	for _, id := range candidates {
		if r, ok := scoreDoc(idx.Docs[id], phrase, tokens); ok {
			results = append(results, r)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if len(results[i].Snippets) != len(results[j].Snippets) {
			return len(results[i].Snippets) > len(results[j].Snippets)
		}
		return natsort.Less(results[i].Name, results[j].Name)
	})

	total := len(results)
	if len(results) > e.maxResults {
		results = results[:e.maxResults]
	}
	if results == nil {
		results = []Result{}
	}
	return &Results{Results: results, Total: total}, nil
}

// candidateDocs intersects the posting sets of all query tokens, smallest
// set first. Any token with no postings empties the result immediately.
func candidateDocs(idx *Index, tokens []string) []int {
	lists := make([][]int, 0, len(tokens))
	for _, tok := range tokens {
		p := idx.Postings[tok]
		if len(p) == 0 {
			return nil
		}
		lists = append(lists, p)
	}
	sort.Slice(lists, func(i, j int) bool { return len(lists[i]) < len(lists[j]) })

	out := lists[0]
	for _, l := range lists[1:] {
		out = intersect(out, l)
		if len(out) == 0 {
			return nil
		}
	}
	return out
}

// intersect merges two sorted id lists.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// scoreDoc scans every line of the document: a verbatim phrase match scores
// 6, otherwise each distinct query token present scores 1. Lines with the
// phrase, all tokens, or at least two tokens also feed snippets.
func scoreDoc(doc *Document, phrase string, tokens []string) (Result, bool) {
	r := Result{Path: doc.Path, Name: doc.Name, Kind: string(doc.Kind)}
	bestLine := 0
	seen := make(map[string]bool)

	for i, line := range doc.Lines {
		verbatim := strings.Contains(line.Lower, phrase)
		count := 0
		for _, tok := range tokens {
			if strings.Contains(line.Lower, tok) {
				count++
			}
		}

		score := count
		if verbatim {
			score = verbatimScore
		}
		if score == 0 {
			continue
		}
		r.Score += score
		if score > bestLine {
			bestLine = score
			r.BestPage = line.Page
		}

		if len(r.Snippets) >= maxSnippets {
			continue
		}
		if !verbatim && count < len(tokens) && count < 2 {
			continue
		}
		snip := buildSnippet(doc.Lines, i)
		key := fmt.Sprintf("%d\x00%s", snip.Page, snip.Text)
		if !seen[key] {
			seen[key] = true
			r.Snippets = append(r.Snippets, snip)
		}
	}

	if r.Score == 0 || len(r.Snippets) == 0 {
		return Result{}, false
	}
	return r, true
}

// buildSnippet joins the matching line with one neighbor on each side and
// bounds the result.
func buildSnippet(lines []Line, i int) Snippet {
	start := i - 1
	if start < 0 {
		start = 0
	}
	end := i + 1
	if end >= len(lines) {
		end = len(lines) - 1
	}
	parts := make([]string, 0, 3)
	for _, l := range lines[start : end+1] {
		parts = append(parts, l.Text)
	}
	text := strings.Join(parts, " ")
	if len(text) > snippetMaxChars {
		cut := snippetMaxChars
		for cut > 0 && text[cut]&0xC0 == 0x80 {
			cut--
		}
		text = text[:cut] + "…"
	}
	return Snippet{Text: text, Page: lines[i].Page}
}

func dedup(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	var out []string
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
