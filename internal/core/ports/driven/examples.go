package driven

import (
	"context"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// ExampleCatalog provides the bundled example documents.
type ExampleCatalog interface {
	// List returns the available examples, defaults first.
	List(ctx context.Context) ([]domain.Example, error)

	// Load reads an example by label, file name or base name.
	// Returns domain.ErrExampleNotFound when the file is missing.
	Load(ctx context.Context, name string) (domain.Document, error)

	// Watch emits a value whenever the examples directory changes.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
