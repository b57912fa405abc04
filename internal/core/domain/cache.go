package domain

import "time"

// CacheEntry describes one persisted extraction result.
type CacheEntry struct {
	// Key is the cache file path.
	Key string

	// Document is the identity of the cached document.
	Document string

	// Method produced the cached text.
	Method Method

	// EngineVersion tags the extractor version that produced the text.
	EngineVersion string

	// Size is the cached text length in bytes.
	Size int64

	// CreatedAt is when the entry was written.
	CreatedAt time.Time
}
