// Package memory provides an unbounded in-memory cache.
package memory

import (
	"sync"

	"github.com/meigma/rcfs/cache"
)

// Cache implements cache.Cache with a map guarded by a RWMutex.
// There is no eviction; table content is immutable and bounded.
type Cache struct {
	mu    sync.RWMutex
	items map[string][]byte
	bytes int64
}

var (
	_ cache.Cache   = (*Cache)(nil)
	_ cache.Deleter = (*Cache)(nil)
)

// New returns an empty cache.
func New() *Cache {
	return &Cache{items: make(map[string][]byte)}
}

// Get retrieves content by hash.
func (c *Cache) Get(hash []byte) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	content, ok := c.items[string(hash)]
	return content, ok
}

// Put stores content by hash. Existing entries are kept.
func (c *Cache) Put(hash, content []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := string(hash)
	if _, ok := c.items[key]; ok {
		return nil
	}
	c.items[key] = content
	c.bytes += int64(len(content))
	return nil
}

// Delete removes content by hash.
func (c *Cache) Delete(hash []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := string(hash)
	if content, ok := c.items[key]; ok {
		c.bytes -= int64(len(content))
		delete(c.items, key)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// SizeBytes returns the total size of cached content.
func (c *Cache) SizeBytes() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bytes
}
