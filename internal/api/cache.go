package api

import (
	"os"
	"strconv"
	"sync"

	"github.com/eqcoach/eqcoach/internal/submission"
)

// ResultCache is a thread-safe LRU cache of stored results. Keys are chosen
// by the caller.
type ResultCache struct {
	mu      sync.Mutex
	maxSize int
	entries map[string]submission.Record
	order   []string // oldest first
}

// NewResultCache creates a cache with the given maximum number of entries.
// If maxSize <= 0, it defaults to 256.
func NewResultCache(maxSize int) *ResultCache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &ResultCache{
		maxSize: maxSize,
		entries: make(map[string]submission.Record),
	}
}

// NewResultCacheFromEnv creates a cache with size from RESULT_CACHE_SIZE env var.
func NewResultCacheFromEnv() *ResultCache {
	size := 256
	if v := os.Getenv("RESULT_CACHE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			size = parsed
		}
	}
	return NewResultCache(size)
}

// Get retrieves a record from the cache.
func (c *ResultCache) Get(key string) (submission.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.entries[key]
	if !ok {
		return submission.Record{}, false
	}

	// Move to end (most recently used)
	c.moveToEnd(key)
	return rec, true
}

// Put adds a record to the cache, evicting the oldest if full.
func (c *ResultCache) Put(key string, rec submission.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = rec
		c.moveToEnd(key)
		return
	}

	// Evict oldest if at capacity
	for len(c.entries) >= c.maxSize && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = rec
	c.order = append(c.order, key)
}

// Len reports the number of cached records.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ResultCache) moveToEnd(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			c.order = append(c.order, key)
			return
		}
	}
}
