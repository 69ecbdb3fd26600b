package source

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// ResponseCache keeps raw response bodies in memory, keyed by request URL.
// A nil *ResponseCache is valid and caches nothing.
type ResponseCache struct {
	store *cache.Cache
}

// NewResponseCache returns nil when ttl is not positive, which disables caching.
func NewResponseCache(ttl, cleanupInterval time.Duration) *ResponseCache {
	if ttl <= 0 {
		return nil
	}
	return &ResponseCache{
		store: cache.New(ttl, cleanupInterval),
	}
}

// Fetch returns the cached body for key, or calls fetch and caches its result.
// Failed fetches are never cached.
func (c *ResponseCache) Fetch(key string, fetch func() ([]byte, error)) ([]byte, error) {
	if c == nil {
		return fetch()
	}
	if cached, found := c.store.Get(key); found {
		return cached.([]byte), nil
	}

	body, err := fetch()
	if err != nil {
		return nil, fmt.Errorf("fetch(%s) > %w", key, err)
	}
	c.store.Set(key, body, cache.DefaultExpiration)
	return body, nil
}

// Len reports the number of cached responses, including expired ones not yet evicted.
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	return c.store.ItemCount()
}
