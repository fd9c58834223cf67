package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/00d/grimoire/internal/api"
	"github.com/00d/grimoire/internal/config"
	"github.com/00d/grimoire/internal/corpus"
	"github.com/00d/grimoire/internal/search"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store := corpus.NewStore(cfg.ExtractedDir, cfg.RulesDir, cfg.TreeTTL, cfg.PagesPerChunk, log)
	engine := search.NewEngine(cfg.ExtractedDir, cfg.RulesDir, cfg.SearchIndexTTL, cfg.SearchMaxResults, log)

	srv := api.NewServer(store, engine, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting grimoire", "port", cfg.Port, "extracted", cfg.ExtractedDir, "rules", cfg.RulesDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
