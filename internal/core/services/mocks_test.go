package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
)

// mockExtractor is a configurable driven.Extractor.
type mockExtractor struct {
	method  domain.Method
	version string
	text    string
	err     error
	panics  string

	// delay is honoured with ctx unless ignoreCtx is set.
	delay     time.Duration
	ignoreCtx bool

	// hook runs at the start of every call.
	hook func(ctx context.Context) error

	calls atomic.Int32
}

var _ driven.Extractor = (*mockExtractor)(nil)

func newMockExtractor(m domain.Method) *mockExtractor {
	return &mockExtractor{method: m, version: "v1", text: "text from " + m.ID()}
}

func (e *mockExtractor) Method() domain.Method { return e.method }

func (e *mockExtractor) Version() string { return e.version }

func (e *mockExtractor) Extract(ctx context.Context, _ []byte) (string, error) {
	e.calls.Add(1)
	if e.hook != nil {
		if err := e.hook(ctx); err != nil {
			return "", err
		}
	}
	if e.panics != "" {
		panic(e.panics)
	}
	if e.delay > 0 {
		if e.ignoreCtx {
			time.Sleep(e.delay)
		} else {
			select {
			case <-time.After(e.delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}

// configurableExtractor reports whether it has its credentials.
type configurableExtractor struct {
	*mockExtractor
	configured bool
}

var _ driven.Configurable = (*configurableExtractor)(nil)

func (e *configurableExtractor) Configured() bool { return e.configured }

// mockExtractors returns one extractor per method, keyed by method.
func mockExtractors() map[domain.Method]*mockExtractor {
	out := make(map[domain.Method]*mockExtractor)
	for _, m := range domain.AllMethods() {
		out[m] = newMockExtractor(m)
	}
	return out
}

// asExtractors flattens a mock map into the constructor argument.
func asExtractors(mocks map[domain.Method]*mockExtractor) []driven.Extractor {
	out := make([]driven.Extractor, 0, len(mocks))
	for _, m := range domain.AllMethods() {
		out = append(out, mocks[m])
	}
	return out
}

// mockCatalog is an in-memory driven.ExampleCatalog.
type mockCatalog struct {
	examples []domain.Example
	docs     map[string]domain.Document
	watchErr error
	changes  chan struct{}
}

var _ driven.ExampleCatalog = (*mockCatalog)(nil)

func (c *mockCatalog) List(_ context.Context) ([]domain.Example, error) {
	return c.examples, nil
}

func (c *mockCatalog) Load(_ context.Context, name string) (domain.Document, error) {
	doc, ok := c.docs[name]
	if !ok {
		return domain.Document{}, domain.ErrExampleNotFound
	}
	return doc, nil
}

func (c *mockCatalog) Watch(_ context.Context) (<-chan struct{}, error) {
	if c.watchErr != nil {
		return nil, c.watchErr
	}
	return c.changes, nil
}

// mockResultCache records calls and delegates to compute.
type mockResultCache struct {
	entries []domain.CacheEntry
	cleared []string
	dir     string
}

var _ driven.ResultCache = (*mockResultCache)(nil)

func (c *mockResultCache) Key(identity, methodID string) string {
	return c.dir + "/" + identity + "_" + methodID + ".md"
}

func (c *mockResultCache) GetOrCompute(
	ctx context.Context,
	_ string,
	_ domain.Method,
	_ string,
	compute driven.ComputeFunc,
) (string, bool, error) {
	text, err := compute(ctx)
	return text, false, err
}

func (c *mockResultCache) List(_ context.Context) ([]domain.CacheEntry, error) {
	return c.entries, nil
}

func (c *mockResultCache) Clear(_ context.Context, identity string) (int, error) {
	c.cleared = append(c.cleared, identity)
	return len(c.entries), nil
}

func (c *mockResultCache) Dir() string { return c.dir }
