package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/00d/grimoire/internal/corpus"
	"github.com/00d/grimoire/internal/render"
	"github.com/00d/grimoire/internal/search"
)

// handleTree serves the cached corpus file tree.
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	tree, err := s.store.Tree()
	if err != nil {
		s.log.Error("tree build failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]any{"tree": tree})
}

// handleContent serves one whole document rendered to HTML.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("path")
	kind, ok := corpus.ParseKind(r.URL.Query().Get("kind"))
	if rel == "" || !ok {
		jsonError(w, "path and kind query parameters are required", http.StatusBadRequest)
		return
	}

	abs, err := s.store.Resolve(rel, kind)
	if err != nil {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}

	text, modTime, err := s.store.ReadFile(rel, kind)
	if err != nil {
		s.fileError(w, err)
		return
	}

	html, cached := s.renderCache.Get(abs, string(kind), modTime)
	if !cached {
		if kind == corpus.KindMarkdown {
			html, err = render.Markdown(text)
			if err != nil {
				s.log.Error("markdown render failed", "path", rel, "error", err)
				jsonError(w, "internal error", http.StatusInternalServerError)
				return
			}
		} else {
			html = render.Text(text)
		}
		s.renderCache.Put(abs, string(kind), modTime, html)
	}

	writeJSON(w, map[string]any{"path": rel, "kind": kind, "html": html})
}

// handlePages serves a chunk of rendered pages from an extracted text file.
func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	rel := r.URL.Query().Get("path")
	if rel == "" {
		jsonError(w, "path query parameter is required", http.StatusBadRequest)
		return
	}
	start := intParam(r, "start")
	end := intParam(r, "end")

	paged, err := s.store.Pages(rel, start, end)
	if err != nil {
		s.fileError(w, err)
		return
	}
	writeJSON(w, paged)
}

// handleSearch answers a keyword query over the corpus.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	results, err := s.engine.Search(query)
	if err != nil {
		if errors.Is(err, search.ErrIndexUnavailable) {
			s.log.Warn("search index unavailable", "error", err)
			jsonError(w, "search unavailable", http.StatusServiceUnavailable)
			return
		}
		s.log.Error("search failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, results)
}

// fileError maps corpus errors onto the response taxonomy: path escapes and
// misses both read as "not found", anything else is a generic server error
// that never leaks paths.
func (s *Server) fileError(w http.ResponseWriter, err error) {
	if errors.Is(err, corpus.ErrNotFound) {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	s.log.Error("read failed", "error", err)
	jsonError(w, "internal error", http.StatusInternalServerError)
}

func intParam(r *http.Request, key string) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
