package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Ensure ComparisonService implements the interface.
var _ driving.ComparisonService = (*ComparisonService)(nil)

// ErrExtractorPanic wraps a panic recovered from an extractor.
var ErrExtractorPanic = errors.New("extractor panicked")

// ComparisonService runs every extraction method over a document and
// publishes the results as one complete set.
type ComparisonService struct {
	extractors map[domain.Method]driven.Extractor
	cache      driven.ResultCache
	results    driven.ResultSetStore
	timeouts   domain.TimeoutSettings
	newID      func() string
}

// NewComparisonService creates a comparison service. One extractor is
// required per method. cache and results may be nil.
func NewComparisonService(
	extractors []driven.Extractor,
	cache driven.ResultCache,
	results driven.ResultSetStore,
	timeouts domain.TimeoutSettings,
) (*ComparisonService, error) {
	byMethod := make(map[domain.Method]driven.Extractor, len(extractors))
	for _, e := range extractors {
		if e == nil {
			continue
		}
		if !e.Method().IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedMethod, e.Method())
		}
		byMethod[e.Method()] = e
	}
	for _, m := range domain.AllMethods() {
		if _, ok := byMethod[m]; !ok {
			return nil, fmt.Errorf("%w: no extractor for %s", domain.ErrInvalidInput, m.Label())
		}
	}

	return &ComparisonService{
		extractors: byMethod,
		cache:      cache,
		results:    results,
		timeouts:   timeouts,
		newID:      uuid.NewString,
	}, nil
}

// Methods returns the extraction methods in display order.
func (s *ComparisonService) Methods() []domain.Method {
	return domain.AllMethods()
}

// Compare runs all methods concurrently and returns the complete result set.
// Method failures are recorded in their slot. Only cancellation of ctx
// returns an error, in which case no result set is produced.
func (s *ComparisonService) Compare(ctx context.Context, doc domain.Document) (*domain.ResultSet, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	logger.Section("Compare " + doc.Name)
	done := logger.Timed("compare", doc.Name)
	defer done()

	methods := s.Methods()
	results := make([]domain.ExtractionResult, len(methods))

	g, gctx := errgroup.WithContext(ctx)
	for i, m := range methods {
		g.Go(func() error {
			results[i] = s.run(gctx, doc, m)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set, err := domain.NewResultSet(s.newID(), doc, results)
	if err != nil {
		return nil, err
	}
	logger.Info("compare %s: %d/%d methods succeeded", doc.Name, len(methods)-set.Failures(), len(methods))

	if s.results != nil {
		if err := s.results.Save(ctx, set); err != nil {
			logger.Warn("saving result set %s: %v", set.ID(), err)
		}
	}
	return set, nil
}

// Extract runs a single method. A method failure is returned in the result,
// not as an error.
func (s *ComparisonService) Extract(
	ctx context.Context,
	doc domain.Document,
	method domain.Method,
) (domain.ExtractionResult, error) {
	if err := doc.Validate(); err != nil {
		return domain.ExtractionResult{}, err
	}
	if _, ok := s.extractors[method]; !ok {
		return domain.ExtractionResult{}, fmt.Errorf("%w: %q", domain.ErrUnsupportedMethod, method)
	}

	result := s.run(ctx, doc, method)
	if err := ctx.Err(); err != nil {
		return domain.ExtractionResult{}, err
	}
	return result, nil
}

// Lookup returns a previously produced result set.
func (s *ComparisonService) Lookup(ctx context.Context, id string) (*domain.ResultSet, error) {
	if s.results == nil {
		return nil, domain.ErrNotFound
	}
	return s.results.Get(ctx, id)
}

// outcome is what one extraction goroutine reports.
type outcome struct {
	text   string
	cached bool
	err    error
}

// run executes one method under its own timeout. It never returns an error:
// failures, timeouts and panics become a failed result.
func (s *ComparisonService) run(ctx context.Context, doc domain.Document, m domain.Method) domain.ExtractionResult {
	start := time.Now()
	ext := s.extractors[m]

	if timeout := s.timeouts.For(m); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	logger.Debug("%s: started (%s)", m.Label(), doc.Name)

	// Buffered so an abandoned extraction can still finish and exit.
	ch := make(chan outcome, 1)
	go func() {
		text, cached, err := s.extract(ctx, doc, ext)
		ch <- outcome{text: text, cached: cached, err: err}
	}()

	var o outcome
	select {
	case o = <-ch:
	case <-ctx.Done():
		o = outcome{err: fmt.Errorf("%s did not finish: %w", m.Label(), ctx.Err())}
	}

	elapsed := time.Since(start)
	if o.err != nil {
		logger.Warn("%s failed after %s: %v", m.Label(), elapsed.Round(time.Millisecond), o.err)
		r := domain.FailedResult(m, o.err)
		r.Duration = elapsed
		return r
	}

	logger.Debug("%s: finished in %s (cached=%t)", m.Label(), elapsed.Round(time.Millisecond), o.cached)
	return domain.ExtractionResult{
		Method:   m,
		Text:     o.text,
		Cached:   o.cached,
		Duration: elapsed,
	}
}

// extract calls the extractor, through the cache for cacheable documents,
// turning a panic into an error.
func (s *ComparisonService) extract(
	ctx context.Context,
	doc domain.Document,
	ext driven.Extractor,
) (text string, cached bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrExtractorPanic, r)
		}
	}()

	compute := func(ctx context.Context) (string, error) {
		return ext.Extract(ctx, doc.Content)
	}

	if !s.useCache(doc, ext) {
		text, err = compute(ctx)
		return text, false, err
	}
	return s.cache.GetOrCompute(ctx, doc.Identity(), ext.Method(), ext.Version(), compute)
}

// useCache reports whether results for doc from ext go through the cache.
func (s *ComparisonService) useCache(doc domain.Document, ext driven.Extractor) bool {
	if s.cache == nil || !doc.Cacheable {
		return false
	}
	if c, ok := ext.(driven.Configurable); ok && !c.Configured() {
		return false
	}
	return true
}

// Recent returns retained result sets, newest first.
func (s *ComparisonService) Recent(ctx context.Context) ([]*domain.ResultSet, error) {
	if s.results == nil {
		return nil, nil
	}
	return s.results.List(ctx)
}
