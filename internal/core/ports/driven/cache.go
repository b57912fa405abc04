package driven

import (
	"context"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// ComputeFunc produces the text for a cache miss.
type ComputeFunc func(ctx context.Context) (string, error)

// ResultCache persists extraction results keyed by (document, method).
type ResultCache interface {
	// Key returns the cache location for a document identity and method ID.
	Key(identity, methodID string) string

	// GetOrCompute returns the cached text for the key, or calls compute,
	// persists its result and returns it. Compute runs at most once per key
	// at a time. The boolean reports whether the text came from the cache.
	GetOrCompute(
		ctx context.Context,
		identity string,
		method domain.Method,
		version string,
		compute ComputeFunc,
	) (string, bool, error)

	// List returns all known cache entries.
	List(ctx context.Context) ([]domain.CacheEntry, error)

	// Clear removes entries for a document identity, or all entries when empty.
	Clear(ctx context.Context, identity string) (int, error)

	// Dir returns the cache directory.
	Dir() string
}

// CacheManifest records metadata about persisted cache entries.
type CacheManifest interface {
	// Get returns the entry for a key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (*domain.CacheEntry, error)

	// Put stores or replaces an entry.
	Put(ctx context.Context, entry domain.CacheEntry) error

	// Delete removes an entry. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// List returns all entries ordered by key.
	List(ctx context.Context) ([]domain.CacheEntry, error)
}
