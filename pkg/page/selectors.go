package page

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSelectorCacheSize bounds the shared compiled selector cache.
const DefaultSelectorCacheSize = 128

// SelectorCache keeps compiled CSS selectors keyed by source text. It is
// safe for concurrent use.
type SelectorCache struct {
	cache *lru.Cache[string, cascadia.Selector]
}

// NewSelectorCache creates a cache holding at most maxItems selectors.
func NewSelectorCache(maxItems int) (*SelectorCache, error) {
	c, err := lru.New[string, cascadia.Selector](maxItems)
	if err != nil {
		return nil, err
	}
	return &SelectorCache{cache: c}, nil
}

// Compile returns the compiled selector, compiling and caching on a miss.
func (c *SelectorCache) Compile(selector string) (cascadia.Selector, error) {
	if s, ok := c.cache.Get(selector); ok {
		return s, nil
	}
	s, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	c.cache.Add(selector, s)
	return s, nil
}

// Len returns the number of cached selectors.
func (c *SelectorCache) Len() int {
	return c.cache.Len()
}

var defaultSelectors = mustSelectorCache(DefaultSelectorCacheSize)

func mustSelectorCache(size int) *SelectorCache {
	c, err := NewSelectorCache(size)
	if err != nil {
		panic(err)
	}
	return c
}
