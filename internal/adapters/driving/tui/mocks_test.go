package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// MockComparisonService implements driving.ComparisonService for testing.
type MockComparisonService struct {
	CompareFunc func(ctx context.Context, doc domain.Document) (*domain.ResultSet, error)
}

func (m *MockComparisonService) Compare(ctx context.Context, doc domain.Document) (*domain.ResultSet, error) {
	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, doc)
	}
	results := make([]domain.ExtractionResult, 0, 4)
	for _, method := range domain.AllMethods() {
		results = append(results, domain.ExtractionResult{Method: method, Text: method.Label() + " text"})
	}
	return domain.NewResultSet("set-1", doc, results)
}

func (m *MockComparisonService) Extract(
	ctx context.Context, doc domain.Document, method domain.Method,
) (domain.ExtractionResult, error) {
	return domain.ExtractionResult{Method: method}, nil
}

func (m *MockComparisonService) Methods() []domain.Method {
	return domain.AllMethods()
}

func (m *MockComparisonService) Lookup(ctx context.Context, id string) (*domain.ResultSet, error) {
	return nil, domain.ErrNotFound
}

func (m *MockComparisonService) Recent(ctx context.Context) ([]*domain.ResultSet, error) {
	return nil, nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	Docs     map[string]domain.Document
	Changes  chan struct{}
	WatchErr error
}

func (m *MockDocumentService) Examples(ctx context.Context) ([]domain.Example, error) {
	return []domain.Example{{Label: "Example OCR PDF", Path: "examples/Ocr.pdf"}}, nil
}

func (m *MockDocumentService) LoadExample(ctx context.Context, name string) (domain.Document, error) {
	if doc, ok := m.Docs[name]; ok {
		return doc, nil
	}
	return domain.Document{}, fmt.Errorf("%w: examples/%s", domain.ErrExampleNotFound, name)
}

func (m *MockDocumentService) LoadUpload(ctx context.Context, path string) (domain.Document, error) {
	if doc, ok := m.Docs[path]; ok {
		return doc, nil
	}
	if path == "broken.pdf" {
		return domain.Document{}, errors.New("permission denied")
	}
	return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
}

func (m *MockDocumentService) FromBytes(name string, content []byte) (domain.Document, error) {
	return domain.Document{Name: name, Content: content}, nil
}

func (m *MockDocumentService) WatchExamples(ctx context.Context) (<-chan struct{}, error) {
	if m.WatchErr != nil {
		return nil, m.WatchErr
	}
	return m.Changes, nil
}
