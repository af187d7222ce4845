// Package cache provides caching utilities for the MCP server.
package cache

import (
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// PageCache provides thread-safe LRU caching of fetched form page bodies.
// Entries expire after a short TTL so a later extraction sees the page as it
// is now. Bodies are stored raw; every load parses its own document so fills
// never share mutable state.
type PageCache struct {
	cache *expirable.LRU[string, []byte]
}

// NewPageCache creates a cache holding at most maxItems bodies, each for ttl.
func NewPageCache(maxItems int, ttl time.Duration) (*PageCache, error) {
	if maxItems <= 0 {
		return nil, errors.New("page cache size must be positive")
	}
	if ttl <= 0 {
		return nil, errors.New("page cache ttl must be positive")
	}
	return &PageCache{cache: expirable.NewLRU[string, []byte](maxItems, nil, ttl)}, nil
}

// Get retrieves a body by URL.
func (c *PageCache) Get(url string) ([]byte, bool) {
	return c.cache.Get(url)
}

// Put adds or updates a body in the cache.
func (c *PageCache) Put(url string, body []byte) {
	c.cache.Add(url, body)
}

// Remove drops a body.
func (c *PageCache) Remove(url string) {
	c.cache.Remove(url)
}

// Len returns the current number of items in the cache.
func (c *PageCache) Len() int {
	return c.cache.Len()
}
