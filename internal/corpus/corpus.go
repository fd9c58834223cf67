// Package corpus exposes the on-disk rulebook text: a cached file tree over
// the two content roots, whole-file reads, and page-chunked rendered content
// for extracted text files. All derived state is rebuildable from the file
// system; nothing here persists.
package corpus

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/00d/grimoire/internal/cache"
)

// ErrNotFound covers missing files, wrong extensions, and paths that escape
// their root. Escapes are deliberately indistinguishable from plain misses.
var ErrNotFound = errors.New("not found")

// Kind identifies which corpus a document belongs to.
type Kind string

const (
	KindText     Kind = "txt" // extracted plain text with PAGE markers
	KindMarkdown Kind = "md"  // curated markdown rules
)

// ParseKind validates a client-supplied kind string.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindText, KindMarkdown:
		return Kind(s), true
	}
	return "", false
}

func (k Kind) ext() string {
	return "." + string(k)
}

// Store reads the two corpus roots and caches what it derives from them.
type Store struct {
	extractedDir string
	rulesDir     string
	log          *slog.Logger

	tree *cache.TTL[[]*Node]

	pagedMu       sync.Mutex
	paged         map[string]*pagedEntry
	pagesPerChunk int
}

func NewStore(extractedDir, rulesDir string, treeTTL time.Duration, pagesPerChunk int, log *slog.Logger) *Store {
	s := &Store{
		extractedDir:  extractedDir,
		rulesDir:      rulesDir,
		log:           log,
		paged:         make(map[string]*pagedEntry),
		pagesPerChunk: pagesPerChunk,
	}
	if s.pagesPerChunk <= 0 {
		s.pagesPerChunk = 12
	}
	s.tree = cache.NewTTL(treeTTL, s.buildTree)
	return s
}

func (s *Store) rootFor(kind Kind) string {
	if kind == KindMarkdown {
		return s.rulesDir
	}
	return s.extractedDir
}

// SafePath resolves rel against root and rejects any path that is absolute or
// escapes the root after normalization.
func SafePath(root, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) || strings.Contains(rel, "\x00") {
		return "", ErrNotFound
	}
	joined := filepath.Join(root, filepath.Clean(rel))
	back, err := filepath.Rel(root, joined)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", ErrNotFound
	}
	return joined, nil
}

// Resolve maps a client path and kind to an absolute file path, enforcing
// containment and the kind's file extension.
func (s *Store) Resolve(rel string, kind Kind) (string, error) {
	abs, err := SafePath(s.rootFor(kind), rel)
	if err != nil {
		return "", err
	}
	if !strings.EqualFold(filepath.Ext(abs), kind.ext()) {
		return "", ErrNotFound
	}
	return abs, nil
}

// ReadFile returns the full text and modification time of a corpus document.
func (s *Store) ReadFile(rel string, kind Kind) (string, time.Time, error) {
	abs, err := s.Resolve(rel, kind)
	if err != nil {
		return "", time.Time{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", time.Time{}, ErrNotFound
		}
		return "", time.Time{}, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", time.Time{}, ErrNotFound
		}
		return "", time.Time{}, err
	}
	return string(data), info.ModTime(), nil
}
