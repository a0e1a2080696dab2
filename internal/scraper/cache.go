package scraper

import (
	"sync"
	"time"
)

// Cache stores fetched response bodies keyed by request URL so repeated
// fetches inside the TTL window hit memory instead of the network.
type Cache interface {
	// Get returns the cached body for a URL and whether it is still live.
	Get(url string) ([]byte, bool)

	// Set stores a body for a URL.
	Set(url string, body []byte)
}

// cacheEntry is one stored response with its expiry instant.
type cacheEntry struct {
	body      []byte
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache. Entries expire TTL after being
// set; expired entries are dropped lazily on read. Safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	clock   Clock
	ttl     time.Duration
	entries map[string]cacheEntry
}

// NewMemoryCache creates a TTL cache over the given clock.
func NewMemoryCache(clock Clock, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached body for a URL when present and unexpired.
func (c *MemoryCache) Get(url string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[url]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.clock.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, url)
		c.mu.Unlock()
		return nil, false
	}
	return entry.body, true
}

// Set stores a body for a URL with the configured TTL.
func (c *MemoryCache) Set(url string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cacheEntry{
		body:      body,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}
