// Package cache defines the content-addressed cache used by rcfs tables.
//
// Keys are SHA256 hashes of uncompressed file content. Because table content
// is immutable, a cached value never goes stale, and identical files across
// tables share one cache slot.
package cache

// Cache stores decompressed file content by hash.
type Cache interface {
	// Get retrieves content by its SHA256 hash.
	// Returns nil, false if the content is not cached.
	Get(hash []byte) ([]byte, bool)

	// Put stores content indexed by its SHA256 hash.
	Put(hash []byte, content []byte) error

	// Implementations must be safe for concurrent use.
}

// Deleter is implemented by caches that can drop an entry, which tables do
// when a cached value fails hash verification.
type Deleter interface {
	Delete(hash []byte) error
}
