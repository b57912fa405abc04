package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
)

// Ensure ResultSetStore implements the interface.
var _ driven.ResultSetStore = (*ResultSetStore)(nil)

// DefaultResultSetCapacity bounds how many result sets are retained.
const DefaultResultSetCapacity = 16

// ResultSetStore is a bounded in-memory driven.ResultSetStore.
// When full, the oldest result set is evicted.
type ResultSetStore struct {
	mu       sync.RWMutex
	capacity int
	order    []string
	sets     map[string]*domain.ResultSet
}

// NewResultSetStore creates a store retaining at most capacity result sets.
func NewResultSetStore(capacity int) *ResultSetStore {
	if capacity <= 0 {
		capacity = DefaultResultSetCapacity
	}
	return &ResultSetStore{
		capacity: capacity,
		sets:     make(map[string]*domain.ResultSet),
	}
}

// Save stores a result set, replacing any with the same ID.
func (s *ResultSetStore) Save(_ context.Context, set *domain.ResultSet) error {
	if set == nil || set.ID() == "" {
		return fmt.Errorf("%w: result set with an ID is required", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := set.ID()
	if _, exists := s.sets[id]; exists {
		s.remove(id)
	}
	s.sets[id] = set
	s.order = append(s.order, id)

	for len(s.order) > s.capacity {
		s.remove(s.order[0])
	}
	return nil
}

// remove drops id from the store (caller must hold lock).
func (s *ResultSetStore) remove(id string) {
	delete(s.sets, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Get retrieves a result set by ID.
func (s *ResultSetStore) Get(_ context.Context, id string) (*domain.ResultSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return set, nil
}

// List returns stored result sets, newest first.
func (s *ResultSetStore) List(_ context.Context) ([]*domain.ResultSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*domain.ResultSet, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.sets[s.order[i]])
	}
	return result, nil
}
