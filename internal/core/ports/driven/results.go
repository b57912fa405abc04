package driven

import (
	"context"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// ResultSetStore keeps recently produced result sets so viewers can refer
// back to them by ID.
type ResultSetStore interface {
	// Save stores a complete result set.
	Save(ctx context.Context, set *domain.ResultSet) error

	// Get returns a result set by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.ResultSet, error)

	// List returns stored result sets, newest first.
	List(ctx context.Context) ([]*domain.ResultSet, error)
}
