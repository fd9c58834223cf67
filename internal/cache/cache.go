// Package cache provides a process-wide value cache with a time-to-live and a
// shared in-flight rebuild: when many requests miss at once, exactly one
// rebuild runs and every waiter shares its result.
package cache

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader builds a fresh value. It runs at most once per rebuild regardless of
// how many callers are waiting.
type Loader[T any] func() (T, error)

// TTL caches one value rebuilt wholesale by its loader. A rebuild failure is
// non-fatal once a value has ever been built: stale data is served instead.
type TTL[T any] struct {
	load Loader[T]
	ttl  time.Duration

	mu    sync.Mutex
	val   T
	built time.Time
	ok    bool

	group singleflight.Group
}

func NewTTL[T any](ttl time.Duration, load Loader[T]) *TTL[T] {
	return &TTL[T]{load: load, ttl: ttl}
}

// Get returns the cached value, rebuilding it when the TTL has expired. The
// error is non-nil only when no value has ever been built successfully.
func (c *TTL[T]) Get() (T, error) {
	c.mu.Lock()
	if c.ok && time.Since(c.built) < c.ttl {
		v := c.val
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do("rebuild", func() (any, error) {
		// A waiter that queued behind a finished rebuild sees the fresh
		// value here instead of starting another one.
		c.mu.Lock()
		if c.ok && time.Since(c.built) < c.ttl {
			v := c.val
			c.mu.Unlock()
			return v, nil
		}
		c.mu.Unlock()

		fresh, err := c.load()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.val, c.built, c.ok = fresh, time.Now(), true
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.ok {
			return c.val, nil
		}
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate forces the next Get to rebuild.
func (c *TTL[T]) Invalidate() {
	c.mu.Lock()
	c.built = time.Time{}
	c.mu.Unlock()
}
