package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
)

// MockComparisonService implements driving.ComparisonService for CLI tests.
type MockComparisonService struct {
	CompareErr error
	Compared   []domain.Document
	Docling    error
}

func (m *MockComparisonService) Compare(ctx context.Context, doc domain.Document) (*domain.ResultSet, error) {
	m.Compared = append(m.Compared, doc)
	if m.CompareErr != nil {
		return nil, m.CompareErr
	}
	results := make([]domain.ExtractionResult, 0, 4)
	for _, method := range domain.AllMethods() {
		r, _ := m.Extract(ctx, doc, method)
		results = append(results, r)
	}
	return domain.NewResultSet("set-1", doc, results)
}

func (m *MockComparisonService) Extract(
	ctx context.Context, doc domain.Document, method domain.Method,
) (domain.ExtractionResult, error) {
	if method == domain.MethodDocling && m.Docling != nil {
		return domain.FailedResult(method, m.Docling), nil
	}
	return domain.ExtractionResult{
		Method:   method,
		Text:     fmt.Sprintf("%s output for %s", method.Label(), doc.Name),
		Cached:   doc.Cacheable,
		Duration: 1500 * time.Millisecond,
	}, nil
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

// MockDocumentService implements driving.DocumentService for CLI tests.
type MockDocumentService struct {
	ExampleList []domain.Example
}

func (m *MockDocumentService) Examples(ctx context.Context) ([]domain.Example, error) {
	return m.ExampleList, nil
}

func (m *MockDocumentService) LoadExample(ctx context.Context, name string) (domain.Document, error) {
	if name == "Ocr" || name == "Ocr.pdf" || name == "Example OCR PDF" {
		return domain.Document{Name: "Ocr.pdf", Path: "examples/Ocr.pdf", Content: []byte("%PDF-ocr"), Cacheable: true}, nil
	}
	return domain.Document{}, fmt.Errorf("%w: examples/%s", domain.ErrExampleNotFound, name)
}

func (m *MockDocumentService) LoadUpload(ctx context.Context, path string) (domain.Document, error) {
	switch path {
	case "report.pdf":
		return domain.Document{Name: "report.pdf", Path: "report.pdf", Content: []byte("%PDF-report")}, nil
	case "locked.pdf":
		return domain.Document{}, errors.New("permission denied")
	}
	return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
}

func (m *MockDocumentService) FromBytes(name string, content []byte) (domain.Document, error) {
	if len(content) == 0 {
		return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrEmptyDocument, name)
	}
	return domain.Document{Name: name, Content: content}, nil
}

func (m *MockDocumentService) WatchExamples(ctx context.Context) (<-chan struct{}, error) {
	return nil, domain.ErrNotFound
}

// MockCacheService implements driving.CacheService for CLI tests.
type MockCacheService struct {
	EntryList []domain.CacheEntry
	Cleared  []string
}

func (m *MockCacheService) Entries(ctx context.Context) ([]domain.CacheEntry, error) {
	return m.EntryList, nil
}

func (m *MockCacheService) Clear(ctx context.Context, identity string) (int, error) {
	m.Cleared = append(m.Cleared, identity)
	if identity == "" {
		return len(m.EntryList), nil
	}
	return 1, nil
}

func (m *MockCacheService) Dir() string { return "cache" }

// MockSettingsService implements driving.SettingsService for CLI tests.
type MockSettingsService struct {
	Sets map[string]string
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if key == "ocr.dpi" && value == "high" {
		return fmt.Errorf("%w: ocr.dpi must be an integer", domain.ErrInvalidInput)
	}
	m.Sets[key] = value
	return nil
}

func (m *MockSettingsService) Keys() []string { return []string{"ocr.dpi", "mistral.api_key"} }

func (m *MockSettingsService) Values() (map[string]string, error) {
	return map[string]string{"ocr.dpi": "300", "mistral.api_key": ""}, nil
}

func (m *MockSettingsService) ConfigPath() string { return "/tmp/pdfcompare/config.toml" }

// MockActionService implements driving.ResultActionService for CLI tests.
type MockActionService struct {
	Opened []domain.Document
}

func (m *MockActionService) CopyToClipboard(ctx context.Context, result domain.ExtractionResult) error {
	return nil
}

func (m *MockActionService) OpenDocument(ctx context.Context, doc domain.Document) error {
	m.Opened = append(m.Opened, doc)
	return nil
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	comparison *MockComparisonService
	document   *MockDocumentService
	cache      *MockCacheService
	settings   *MockSettingsService
	actions    *MockActionService
}

// setupTestServices installs mock services and returns a cleanup function.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		comparison: &MockComparisonService{},
		document:   &MockDocumentService{},
		cache:      &MockCacheService{},
		settings:   &MockSettingsService{Sets: map[string]string{}},
		actions:    &MockActionService{},
	}
	SetServices(&Services{
		Comparison: ts.comparison,
		Document:   ts.document,
		Cache:      ts.cache,
		Settings:   ts.settings,
		Actions:    ts.actions,
	})
	return ts, func() { SetServices(nil) }
}

// resetFlags restores every flag to its default and clears its changed state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command and returns what it wrote to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	resetFlags(rootCmd)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
