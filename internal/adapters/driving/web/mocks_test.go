package web

import (
	"context"
	"fmt"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// mockComparisonService is a mock implementation of driving.ComparisonService.
type mockComparisonService struct {
	sets     map[string]*domain.ResultSet
	err      error
	compared []domain.Document
	texts    map[domain.Method]string
}

func (m *mockComparisonService) Compare(_ context.Context, doc domain.Document) (*domain.ResultSet, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.compared = append(m.compared, doc)

	results := make([]domain.ExtractionResult, 0, 4)
	for _, method := range domain.AllMethods() {
		text, ok := m.texts[method]
		if !ok {
			text = "text from " + method.ID()
		}
		results = append(results, domain.ExtractionResult{Method: method, Text: text})
	}
	set, err := domain.NewResultSet("set-1", doc, results)
	if err != nil {
		return nil, err
	}
	if m.sets == nil {
		m.sets = make(map[string]*domain.ResultSet)
	}
	m.sets[set.ID()] = set
	return set, nil
}

func (m *mockComparisonService) Extract(
	_ context.Context,
	_ domain.Document,
	method domain.Method,
) (domain.ExtractionResult, error) {
	return domain.ExtractionResult{Method: method}, m.err
}

func (m *mockComparisonService) Methods() []domain.Method {
	return domain.AllMethods()
}

func (m *mockComparisonService) Lookup(_ context.Context, id string) (*domain.ResultSet, error) {
	set, ok := m.sets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return set, nil
}

func (m *mockComparisonService) Recent(_ context.Context) ([]*domain.ResultSet, error) {
	out := make([]*domain.ResultSet, 0, len(m.sets))
	for _, set := range m.sets {
		out = append(out, set)
	}
	return out, nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	examples []domain.Example
	docs     map[string]domain.Document
	err      error
}

func (m *mockDocumentService) Examples(_ context.Context) ([]domain.Example, error) {
	return m.examples, m.err
}

func (m *mockDocumentService) LoadExample(_ context.Context, name string) (domain.Document, error) {
	if m.err != nil {
		return domain.Document{}, m.err
	}
	doc, ok := m.docs[name]
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: examples/%s", domain.ErrExampleNotFound, name)
	}
	return doc, nil
}

func (m *mockDocumentService) LoadUpload(_ context.Context, _ string) (domain.Document, error) {
	return domain.Document{}, domain.ErrNotFound
}

func (m *mockDocumentService) FromBytes(name string, content []byte) (domain.Document, error) {
	doc := domain.Document{Name: name, Content: content}
	if err := doc.Validate(); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

func (m *mockDocumentService) WatchExamples(_ context.Context) (<-chan struct{}, error) {
	return nil, m.err
}

func testDocuments() *mockDocumentService {
	return &mockDocumentService{
		examples: []domain.Example{
			{Label: "Example OCR PDF", Path: "examples/Ocr.pdf"},
			{Label: "Example Non-OCR PDF", Path: "examples/Non_Ocr.pdf"},
		},
		docs: map[string]domain.Document{
			"Ocr.pdf": {
				Name:      "Ocr.pdf",
				Path:      "examples/Ocr.pdf",
				Content:   []byte("%PDF-1.4 ocr"),
				Cacheable: true,
			},
		},
	}
}
