package driving

import (
	"context"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// ComparisonService runs every extraction method over one document.
type ComparisonService interface {
	// Compare runs all methods and returns the complete result set.
	// Individual method failures are recorded in the set, not returned.
	Compare(ctx context.Context, doc domain.Document) (*domain.ResultSet, error)

	// Extract runs a single method.
	Extract(ctx context.Context, doc domain.Document, method domain.Method) (domain.ExtractionResult, error)

	// Methods returns the methods this service runs, in display order.
	Methods() []domain.Method

	// Lookup returns a previously produced result set by ID.
	Lookup(ctx context.Context, id string) (*domain.ResultSet, error)

	// Recent returns retained result sets, newest first.
	Recent(ctx context.Context) ([]*domain.ResultSet, error)
}

// ResultActionService provides desktop actions on documents and results.
type ResultActionService interface {
	// CopyToClipboard copies a method's text to the system clipboard.
	CopyToClipboard(ctx context.Context, result domain.ExtractionResult) error

	// OpenDocument opens the original PDF in the default viewer.
	OpenDocument(ctx context.Context, doc domain.Document) error
}

// DocumentService resolves documents from examples or uploads.
type DocumentService interface {
	// Examples lists the bundled example documents.
	Examples(ctx context.Context) ([]domain.Example, error)

	// LoadExample reads a bundled example. Returns domain.ErrExampleNotFound
	// when the file is missing.
	LoadExample(ctx context.Context, name string) (domain.Document, error)

	// LoadUpload reads a user-supplied file. Uploads are never cached.
	LoadUpload(ctx context.Context, path string) (domain.Document, error)

	// FromBytes wraps uploaded bytes as a document.
	FromBytes(name string, content []byte) (domain.Document, error)

	// WatchExamples notifies when the example catalog changes.
	WatchExamples(ctx context.Context) (<-chan struct{}, error)
}

// CacheService exposes the result cache for inspection.
type CacheService interface {
	// Entries returns all cache entries.
	Entries(ctx context.Context) ([]domain.CacheEntry, error)

	// Clear removes entries for one document, or all when identity is empty.
	Clear(ctx context.Context, identity string) (int, error)

	// Dir returns the cache directory, or empty when caching is disabled.
	Dir() string
}
