package mcp

import (
	"context"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// mockComparisonService is a mock implementation of driving.ComparisonService.
type mockComparisonService struct {
	set      *domain.ResultSet
	result   domain.ExtractionResult
	err      error
	compared []domain.Document
	methods  []domain.Method
}

func (m *mockComparisonService) Compare(_ context.Context, doc domain.Document) (*domain.ResultSet, error) {
	m.compared = append(m.compared, doc)
	return m.set, m.err
}

func (m *mockComparisonService) Extract(
	_ context.Context,
	doc domain.Document,
	method domain.Method,
) (domain.ExtractionResult, error) {
	m.compared = append(m.compared, doc)
	m.methods = append(m.methods, method)
	return m.result, m.err
}

func (m *mockComparisonService) Methods() []domain.Method {
	return domain.AllMethods()
}

func (m *mockComparisonService) Lookup(_ context.Context, id string) (*domain.ResultSet, error) {
	if m.set == nil || m.set.ID() != id {
		return nil, domain.ErrNotFound
	}
	return m.set, nil
}

func (m *mockComparisonService) Recent(_ context.Context) ([]*domain.ResultSet, error) {
	if m.set == nil {
		return nil, nil
	}
	return []*domain.ResultSet{m.set}, nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	examples []domain.Example
	doc      domain.Document
	err      error
}

func (m *mockDocumentService) Examples(_ context.Context) ([]domain.Example, error) {
	return m.examples, m.err
}

func (m *mockDocumentService) LoadExample(_ context.Context, _ string) (domain.Document, error) {
	return m.doc, m.err
}

func (m *mockDocumentService) LoadUpload(_ context.Context, _ string) (domain.Document, error) {
	return m.doc, m.err
}

func (m *mockDocumentService) FromBytes(name string, content []byte) (domain.Document, error) {
	return domain.Document{Name: name, Content: content}, m.err
}

func (m *mockDocumentService) WatchExamples(_ context.Context) (<-chan struct{}, error) {
	return nil, m.err
}

// mockCacheService is a mock implementation of driving.CacheService.
type mockCacheService struct {
	entries []domain.CacheEntry
	err     error
}

func (m *mockCacheService) Entries(_ context.Context) ([]domain.CacheEntry, error) {
	return m.entries, m.err
}

func (m *mockCacheService) Clear(_ context.Context, _ string) (int, error) {
	return len(m.entries), m.err
}

func (m *mockCacheService) Dir() string { return "cache" }

// testDocument returns a small cacheable example document.
func testDocument() domain.Document {
	return domain.Document{
		Name:      "Ocr.pdf",
		Path:      "examples/Ocr.pdf",
		Content:   []byte("%PDF-1.4"),
		Cacheable: true,
	}
}

// testResultSet returns a complete result set with one failed method.
func testResultSet(id string) *domain.ResultSet {
	results := make([]domain.ExtractionResult, 0, 4)
	for _, m := range domain.AllMethods() {
		results = append(results, domain.ExtractionResult{Method: m, Text: "text from " + m.ID()})
	}
	results[1] = domain.FailedResult(domain.MethodDocling, domain.ErrToolNotFound)

	set, err := domain.NewResultSet(id, testDocument(), results)
	if err != nil {
		panic(err)
	}
	return set
}

// newTestServer returns a server over the given mocks.
func newTestServer(comparison *mockComparisonService, docs *mockDocumentService) *Server {
	server, err := NewServer(&Ports{Comparison: comparison, Document: docs})
	if err != nil {
		panic(err)
	}
	return server
}
