package corpus

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/00d/grimoire/internal/classify"
	"github.com/00d/grimoire/internal/render"
)

// Page is one rendered page of an extracted text file.
type Page struct {
	Page int    `json:"page"`
	HTML string `json:"html"`
}

// PagedContent is a chunk of a document's pages plus enough range metadata
// for a client to request the next chunk.
type PagedContent struct {
	TotalPages int    `json:"totalPages"`
	FirstPage  int    `json:"firstPage"`
	LastPage   int    `json:"lastPage"`
	StartPage  int    `json:"startPage"`
	EndPage    int    `json:"endPage"`
	NextPage   int    `json:"nextPage,omitempty"`
	HasMore    bool   `json:"hasMore"`
	Pages      []Page `json:"pages"`
}

type pagedEntry struct {
	modTime time.Time
	pages   []Page
}

// Pages returns up to one chunk of rendered pages from an extracted text
// file. startPage and endPage select a sub-range by nearest available page
// number; zero means "from the beginning" / "one full chunk".
func (s *Store) Pages(rel string, startPage, endPage int) (*PagedContent, error) {
	pages, err := s.pagesFor(rel)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return &PagedContent{}, nil
	}

	start := 0
	if startPage > 0 {
		start = nearestPageIndex(pages, startPage)
	}
	end := start + s.pagesPerChunk - 1
	if endPage > 0 {
		end = nearestPageIndex(pages, endPage)
	}
	if end < start {
		end = start
	}
	if end > start+s.pagesPerChunk-1 {
		end = start + s.pagesPerChunk - 1
	}
	if end >= len(pages) {
		end = len(pages) - 1
	}

	out := &PagedContent{
		TotalPages: len(pages),
		FirstPage:  pages[0].Page,
		LastPage:   pages[len(pages)-1].Page,
		StartPage:  pages[start].Page,
		EndPage:    pages[end].Page,
		HasMore:    end+1 < len(pages),
		Pages:      pages[start : end+1],
	}
	if out.HasMore {
		out.NextPage = pages[end+1].Page
	}
	return out, nil
}

// pagesFor reads and renders a file's pages, reusing the per-file cache while
// the file's modification time is unchanged.
func (s *Store) pagesFor(rel string) ([]Page, error) {
	text, modTime, err := s.ReadFile(rel, KindText)
	if err != nil {
		return nil, err
	}

	s.pagedMu.Lock()
	if e, ok := s.paged[rel]; ok && e.modTime.Equal(modTime) {
		pages := e.pages
		s.pagedMu.Unlock()
		return pages, nil
	}
	s.pagedMu.Unlock()

	pages := splitPages(text)
	s.pagedMu.Lock()
	s.paged[rel] = &pagedEntry{modTime: modTime, pages: pages}
	s.pagedMu.Unlock()
	return pages, nil
}

// splitPages cuts the text at PAGE markers and renders each page. Text before
// the first marker stays with the first page; a file without markers becomes
// a single page numbered 1.
func splitPages(text string) []Page {
	lines := strings.Split(text, "\n")

	type segment struct {
		page  int
		lines []string
	}
	var segs []*segment
	current := &segment{page: 0}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if n, ok := classify.PageNumber(line); ok {
			page, _ := strconv.Atoi(n)
			if current.page == 0 && len(segs) == 0 {
				// Preamble folds into the first marked page.
				current.page = page
				current.lines = append(current.lines, raw)
				continue
			}
			segs = append(segs, current)
			current = &segment{page: page, lines: []string{raw}}
			continue
		}
		current.lines = append(current.lines, raw)
	}
	segs = append(segs, current)

	var pages []Page
	for _, seg := range segs {
		body := strings.TrimSpace(strings.Join(seg.lines, "\n"))
		if body == "" {
			continue
		}
		page := seg.page
		if page == 0 {
			page = 1
		}
		pages = append(pages, Page{Page: page, HTML: render.Text(strings.Join(seg.lines, "\n"))})
	}
	return pages
}

// nearestPageIndex finds the index of the page whose number is closest to
// want, preferring the earlier page on ties.
func nearestPageIndex(pages []Page, want int) int {
	i := sort.Search(len(pages), func(i int) bool { return pages[i].Page >= want })
	if i == len(pages) {
		return len(pages) - 1
	}
	if i == 0 {
		return 0
	}
	if pages[i].Page-want < want-pages[i-1].Page {
		return i
	}
	return i - 1
}
