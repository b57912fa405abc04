package services

import (
	"context"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Ensure CacheService implements the interface.
var _ driving.CacheService = (*CacheService)(nil)

// CacheService inspects and clears cached extraction results.
type CacheService struct {
	cache driven.ResultCache
}

// NewCacheService creates a new cache service.
func NewCacheService(cache driven.ResultCache) *CacheService {
	return &CacheService{cache: cache}
}

// Entries lists cached results.
func (s *CacheService) Entries(ctx context.Context) ([]domain.CacheEntry, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.List(ctx)
}

// Clear removes cached results for one document, or all results when
// identity is empty.
func (s *CacheService) Clear(ctx context.Context, identity string) (int, error) {
	if s.cache == nil {
		return 0, nil
	}
	n, err := s.cache.Clear(ctx, identity)
	if err != nil {
		return n, err
	}
	if identity == "" {
		logger.Info("cleared %d cached results", n)
	} else {
		logger.Info("cleared %d cached results for %s", n, identity)
	}
	return n, nil
}

// Dir returns the cache directory.
func (s *CacheService) Dir() string {
	if s.cache == nil {
		return ""
	}
	return s.cache.Dir()
}
