package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driving"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DefaultUploadName names uploads that arrive without a file name.
const DefaultUploadName = "upload.pdf"

// DocumentService resolves documents from the example catalog or uploads.
type DocumentService struct {
	catalog driven.ExampleCatalog
}

// NewDocumentService creates a new document service.
func NewDocumentService(catalog driven.ExampleCatalog) *DocumentService {
	return &DocumentService{catalog: catalog}
}

// Examples lists the example documents.
func (s *DocumentService) Examples(ctx context.Context) ([]domain.Example, error) {
	if s.catalog == nil {
		return nil, nil
	}
	return s.catalog.List(ctx)
}

// LoadExample reads an example document by label, file name or base name.
func (s *DocumentService) LoadExample(ctx context.Context, name string) (domain.Document, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Document{}, fmt.Errorf("%w: example name is required", domain.ErrInvalidInput)
	}
	if s.catalog == nil {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrExampleNotFound, name)
	}

	doc, err := s.catalog.Load(ctx, name)
	if err != nil {
		return domain.Document{}, err
	}
	logger.Debug("loaded example %s (%d bytes)", doc.Path, doc.Size())
	return doc, nil
}

// LoadUpload reads a user-supplied file. Uploads are never cached.
func (s *DocumentService) LoadUpload(_ context.Context, path string) (domain.Document, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Document{}, fmt.Errorf("%w: file path is required", domain.ErrInvalidInput)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.Document{}, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	doc := domain.Document{
		Name:    filepath.Base(path),
		Path:    path,
		Content: content,
	}
	if err := doc.Validate(); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %s", err, path)
	}
	logger.Debug("loaded upload %s (%d bytes)", path, doc.Size())
	return doc, nil
}

// FromBytes wraps uploaded bytes as a document.
func (s *DocumentService) FromBytes(name string, content []byte) (domain.Document, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = DefaultUploadName
	}

	doc := domain.Document{
		Name:    name,
		Content: content,
	}
	if err := doc.Validate(); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// WatchExamples notifies when the example catalog changes.
func (s *DocumentService) WatchExamples(ctx context.Context) (<-chan struct{}, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("%w: no example catalog", domain.ErrNotFound)
	}
	return s.catalog.Watch(ctx)
}
