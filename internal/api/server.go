package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/00d/grimoire/internal/config"
	"github.com/00d/grimoire/internal/corpus"
	"github.com/00d/grimoire/internal/render"
	"github.com/00d/grimoire/internal/search"
)

// Server is the HTTP API for the rulebook viewer.
type Server struct {
	router      chi.Router
	store       *corpus.Store
	engine      *search.Engine
	renderCache *render.Cache
	log         *slog.Logger
	cfg         config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(store *corpus.Store, engine *search.Engine, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		store:       store,
		engine:      engine,
		renderCache: render.NewCache(cfg.RenderCacheSize),
		log:         log,
		cfg:         cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Get("/api/tree", s.handleTree)
	r.Get("/api/content", s.handleContent)
	r.Get("/api/pages", s.handlePages)
	r.Get("/api/search", s.handleSearch)

	if s.cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.cfg.StaticDir)))
	}

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
