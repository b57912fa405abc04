package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
)

// Ensure CacheManifest implements the interface.
var _ driven.CacheManifest = (*CacheManifest)(nil)

// CacheManifest is an in-memory implementation of driven.CacheManifest.
type CacheManifest struct {
	mu      sync.RWMutex
	entries map[string]domain.CacheEntry
}

// NewCacheManifest creates a new in-memory cache manifest.
func NewCacheManifest() *CacheManifest {
	return &CacheManifest{
		entries: make(map[string]domain.CacheEntry),
	}
}

// Get retrieves an entry by key.
func (m *CacheManifest) Get(_ context.Context, key string) (*domain.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Put stores or replaces an entry.
func (m *CacheManifest) Put(_ context.Context, entry domain.CacheEntry) error {
	if entry.Key == "" {
		return fmt.Errorf("%w: cache entry key is required", domain.ErrInvalidInput)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Key] = entry
	return nil
}

// Delete removes an entry.
func (m *CacheManifest) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// List returns all entries ordered by key.
func (m *CacheManifest) List(_ context.Context) ([]domain.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]domain.CacheEntry, 0, len(m.entries))
	for _, entry := range m.entries {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}
