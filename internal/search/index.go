// Package search implements keyword search over the corpus: a whole-corpus
// inverted index rebuilt on a time-to-live, and a query engine that scores
// documents line by line and extracts page-aware snippets.
package search

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/00d/grimoire/internal/cache"
	"github.com/00d/grimoire/internal/classify"
	"github.com/00d/grimoire/internal/corpus"
)

// ErrIndexUnavailable is returned when a query arrives before the index has
// ever been built successfully.
var ErrIndexUnavailable = errors.New("search index unavailable")

// Document is one indexed corpus file.
type Document struct {
	ID    int
	Path  string
	Name  string
	Kind  corpus.Kind
	Lines []Line
}

// Line is one non-blank line of a document. Page is the most recent PAGE
// marker seen before the line; it stays 0 for markdown documents.
type Line struct {
	Text   string
	Lower  string
	Number int
	Page   int
}

// Index maps normalized tokens to the sorted ids of documents containing
// them. It is replaced atomically on rebuild, never patched.
type Index struct {
	Docs     []*Document
	Postings map[string][]int
}

// tokenRe extracts normalized search tokens: lowercase alphanumeric runs of
// at least two characters.
var tokenRe = regexp.MustCompile(`[a-z0-9]{2,}`)

// Tokens normalizes text into its search tokens.
func Tokens(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

// Engine owns the cached index and answers queries against it.
type Engine struct {
	extractedDir string
	rulesDir     string
	log          *slog.Logger
	maxResults   int

	index *cache.TTL[*Index]
}

func NewEngine(extractedDir, rulesDir string, ttl time.Duration, maxResults int, log *slog.Logger) *Engine {
	e := &Engine{
		extractedDir: extractedDir,
		rulesDir:     rulesDir,
		log:          log,
		maxResults:   maxResults,
	}
	if e.maxResults <= 0 {
		e.maxResults = 20
	}
	e.index = cache.NewTTL(ttl, e.build)
	return e
}

// build walks both corpus roots and assembles a fresh index. The two roots
// are scanned concurrently; ids are assigned afterwards so they stay dense
// and deterministic.
func (e *Engine) build() (*Index, error) {
	started := time.Now()

	var txtDocs, mdDocs []*Document
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		txtDocs, err = collectDocs(e.extractedDir, corpus.KindText)
		return err
	})
	g.Go(func() error {
		var err error
		mdDocs, err = collectDocs(e.rulesDir, corpus.KindMarkdown)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("index corpus: %w", err)
	}

	idx := &Index{Postings: make(map[string][]int)}
	for _, doc := range append(txtDocs, mdDocs...) {
		doc.ID = len(idx.Docs)
		idx.Docs = append(idx.Docs, doc)

		seen := make(map[string]bool)
		for _, line := range doc.Lines {
			for _, tok := range tokenRe.FindAllString(line.Lower, -1) {
				if !seen[tok] {
					seen[tok] = true
					idx.Postings[tok] = append(idx.Postings[tok], doc.ID)
				}
			}
		}
	}

	e.log.Info("search index rebuilt",
		"documents", len(idx.Docs),
		"tokens", len(idx.Postings),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return idx, nil
}

// collectDocs reads every file of the given kind under root into a Document
// with its line table.
func collectDocs(root string, kind corpus.Kind) ([]*Document, error) {
	var docs []*Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(name), "."+string(kind)) {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			// A single unreadable file does not fail the rebuild.
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		docs = append(docs, &Document{
			Path:  filepath.ToSlash(rel),
			Name:  corpus.PrettyName(name),
			Kind:  kind,
			Lines: splitLines(string(data), kind),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// splitLines builds the line table, tracking the running page number through
// PAGE markers for extracted text.
func splitLines(text string, kind corpus.Kind) []Line {
	var out []Line
	page := 0
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if kind == corpus.KindText {
			if n, ok := classify.PageNumber(line); ok {
				page, _ = strconv.Atoi(n)
			}
		}
		out = append(out, Line{
			Text:   line,
			Lower:  strings.ToLower(line),
			Number: i + 1,
			Page:   page,
		})
	}
	return out
}
