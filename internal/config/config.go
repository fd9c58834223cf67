package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Corpus roots
	ExtractedDir string // .txt files with embedded PAGE markers
	RulesDir     string // curated .md rules

	// Static web assets (optional)
	StaticDir string

	// Cache freshness
	TreeTTL        time.Duration
	SearchIndexTTL time.Duration

	// Sizing
	RenderCacheSize  int
	PagesPerChunk    int
	SearchMaxResults int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		ExtractedDir: envOr("EXTRACTED_DIR", "corpus/extracted"),
		RulesDir:     envOr("RULES_DIR", "corpus/rules"),
		StaticDir:    os.Getenv("STATIC_DIR"),

		TreeTTL:        envDuration("TREE_TTL", 5*time.Minute),
		SearchIndexTTL: envDuration("SEARCH_INDEX_TTL", 5*time.Minute),

		RenderCacheSize:  envInt("RENDER_CACHE_SIZE", 256),
		PagesPerChunk:    envInt("PAGES_PER_CHUNK", 12),
		SearchMaxResults: envInt("SEARCH_MAX_RESULTS", 20),
	}

	if cfg.TreeTTL <= 0 {
		cfg.TreeTTL = 5 * time.Minute
	}
	if cfg.SearchIndexTTL <= 0 {
		cfg.SearchIndexTTL = 5 * time.Minute
	}
	if cfg.RenderCacheSize <= 0 {
		cfg.RenderCacheSize = 256
	}
	if cfg.PagesPerChunk <= 0 {
		cfg.PagesPerChunk = 12
	}
	if cfg.SearchMaxResults <= 0 {
		cfg.SearchMaxResults = 20
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ExtractedDir == "" {
		return fmt.Errorf("EXTRACTED_DIR is required")
	}
	if c.RulesDir == "" {
		return fmt.Errorf("RULES_DIR is required")
	}
	if _, err := os.Stat(c.ExtractedDir); err != nil {
		return fmt.Errorf("EXTRACTED_DIR: %w", err)
	}
	if _, err := os.Stat(c.RulesDir); err != nil {
		return fmt.Errorf("RULES_DIR: %w", err)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
