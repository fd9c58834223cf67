package render

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of rendered documents kept in memory.
const DefaultCacheSize = 256

// Cache is an LRU of rendered HTML keyed by absolute path and document kind.
// Entries are validated against the file's modification time, so an edited
// file re-renders on its next request.
type Cache struct {
	lru *lru.Cache[string, cacheEntry]
}

type cacheEntry struct {
	modTime time.Time
	html    string
}

func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, _ := lru.New[string, cacheEntry](size)
	return &Cache{lru: c}
}

func cacheKey(path, kind string) string {
	return kind + "\x00" + path
}

// Get returns the cached HTML for path/kind if it was rendered from a file
// with the same modification time.
func (c *Cache) Get(path, kind string, modTime time.Time) (string, bool) {
	e, ok := c.lru.Get(cacheKey(path, kind))
	if !ok || !e.modTime.Equal(modTime) {
		return "", false
	}
	return e.html, true
}

// Put stores rendered HTML for path/kind.
func (c *Cache) Put(path, kind string, modTime time.Time, html string) {
	c.lru.Add(cacheKey(path, kind), cacheEntry{modTime: modTime, html: html})
}
