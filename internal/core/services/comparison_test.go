package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfcompare/internal/adapters/driven/cache/file"
	"github.com/custodia-labs/pdfcompare/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
)

var testTimeouts = domain.TimeoutSettings{Method: 5 * time.Second, Cloud: 5 * time.Second}

func exampleDoc() domain.Document {
	return domain.Document{
		Name:      "Ocr.pdf",
		Path:      "examples/Ocr.pdf",
		Content:   []byte("%PDF-1.4 example"),
		Cacheable: true,
	}
}

func uploadDoc() domain.Document {
	return domain.Document{
		Name:    "scan.pdf",
		Content: []byte("%PDF-1.4 upload"),
	}
}

func newTestComparison(
	t *testing.T,
	extractors []driven.Extractor,
	cache driven.ResultCache,
	timeouts domain.TimeoutSettings,
) (*ComparisonService, *memory.ResultSetStore) {
	t.Helper()
	store := memory.NewResultSetStore(4)
	svc, err := NewComparisonService(extractors, cache, store, timeouts)
	require.NoError(t, err)
	return svc, store
}

func TestNewComparisonService_RequiresEveryMethod(t *testing.T) {
	mocks := mockExtractors()
	delete(mocks, domain.MethodMistral)

	extractors := []driven.Extractor{
		mocks[domain.MethodTesseract],
		mocks[domain.MethodDocling],
		mocks[domain.MethodPDFText],
	}
	_, err := NewComparisonService(extractors, nil, nil, testTimeouts)

	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Mistral OCR")
}

func TestNewComparisonService_RejectsUnknownMethod(t *testing.T) {
	extractors := append(asExtractors(mockExtractors()), newMockExtractor(domain.MethodOriginal))

	_, err := NewComparisonService(extractors, nil, nil, testTimeouts)

	assert.ErrorIs(t, err, domain.ErrUnsupportedMethod)
}

func TestNewComparisonService_SkipsNil(t *testing.T) {
	extractors := append(asExtractors(mockExtractors()), nil)

	svc, err := NewComparisonService(extractors, nil, nil, testTimeouts)

	require.NoError(t, err)
	assert.Equal(t, domain.AllMethods(), svc.Methods())
}

func TestComparisonService_Compare(t *testing.T) {
	mocks := mockExtractors()
	svc, _ := newTestComparison(t, asExtractors(mocks), nil, testTimeouts)
	svc.newID = func() string { return "set-1" }

	set, err := svc.Compare(context.Background(), exampleDoc())
	require.NoError(t, err)
	require.NotNil(t, set)

	assert.Equal(t, "set-1", set.ID())
	assert.Equal(t, 5, set.Len())
	assert.Equal(t, []string{
		"Tesseract OCR",
		"Docling Conversion",
		"PDF Markdown Conversion",
		"Mistral OCR",
		"Original Document",
	}, set.Labels())
	assert.Zero(t, set.Failures())
	assert.Equal(t, []byte("%PDF-1.4 example"), set.Original())

	for _, m := range domain.AllMethods() {
		r, ok := set.Result(m)
		require.True(t, ok, m)
		assert.Equal(t, "text from "+m.ID(), r.Text)
		assert.False(t, r.Cached)
		assert.Equal(t, int32(1), mocks[m].calls.Load())
	}
}

func TestComparisonService_CompareRunsMethodsConcurrently(t *testing.T) {
	mocks := mockExtractors()

	var arrived sync.WaitGroup
	arrived.Add(len(mocks))
	all := make(chan struct{})
	go func() {
		arrived.Wait()
		close(all)
	}()

	for _, m := range mocks {
		m.hook = func(ctx context.Context) error {
			arrived.Done()
			select {
			case <-all:
				return nil
			case <-time.After(2 * time.Second):
				return errors.New("methods did not run concurrently")
			}
		}
	}
	svc, _ := newTestComparison(t, asExtractors(mocks), nil, testTimeouts)

	set, err := svc.Compare(context.Background(), exampleDoc())

	require.NoError(t, err)
	assert.Zero(t, set.Failures())
}

func TestComparisonService_CompareContainsFailure(t *testing.T) {
	mocks := mockExtractors()
	mocks[domain.MethodDocling].err = errors.New("connection refused")
	svc, _ := newTestComparison(t, asExtractors(mocks), nil, testTimeouts)

	set, err := svc.Compare(context.Background(), exampleDoc())
	require.NoError(t, err)

	assert.Equal(t, 1, set.Failures())
	failed, _ := set.Result(domain.MethodDocling)
	assert.True(t, failed.Failed())
	assert.Equal(t, "Extraction failed: connection refused", failed.Text)

	ok, _ := set.Result(domain.MethodPDFText)
	assert.False(t, ok.Failed())
	assert.Equal(t, "text from pdftext", ok.Text)
}

func TestComparisonService_CompareRecoversPanic(t *testing.T) {
	mocks := mockExtractors()
	mocks[domain.MethodPDFText].panics = "malformed xref"
	svc, _ := newTestComparison(t, asExtractors(mocks), nil, testTimeouts)

	set, err := svc.Compare(context.Background(), exampleDoc())
	require.NoError(t, err)

	r, _ := set.Result(domain.MethodPDFText)
	require.True(t, r.Failed())
	assert.ErrorIs(t, r.Err, ErrExtractorPanic)
	assert.Contains(t, r.Text, "malformed xref")
	assert.Equal(t, 1, set.Failures())
}

func TestComparisonService_CompareMethodTimeout(t *testing.T) {
	mocks := mockExtractors()
	slow := mocks[domain.MethodTesseract]
	slow.delay = time.Second
	slow.ignoreCtx = true

	timeouts := domain.TimeoutSettings{Method: 50 * time.Millisecond, Cloud: 5 * time.Second}
	svc, _ := newTestComparison(t, asExtractors(mocks), nil, timeouts)

	start := time.Now()
	set, err := svc.Compare(context.Background(), exampleDoc())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, 800*time.Millisecond)

	r, _ := set.Result(domain.MethodTesseract)
	require.True(t, r.Failed())
	assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
	assert.Contains(t, r.Text, "did not finish")

	cloud, _ := set.Result(domain.MethodMistral)
	assert.False(t, cloud.Failed())
}

func TestComparisonService_CompareTimeoutLeavesCacheEmpty(t *testing.T) {
	dir := t.TempDir()
	manifest := memory.NewCacheManifest()
	cache := file.New(dir, manifest)

	mocks := mockExtractors()
	slow := mocks[domain.MethodTesseract]
	slow.text = "### Page 1\npage one text\n\n### Page 2\n\n\n"
	slow.delay = 200 * time.Millisecond
	slow.ignoreCtx = true
	timeouts := domain.TimeoutSettings{Method: 50 * time.Millisecond, Cloud: 5 * time.Second}
	svc, _ := newTestComparison(t, asExtractors(mocks), cache, timeouts)

	set, err := svc.Compare(context.Background(), exampleDoc())
	require.NoError(t, err)
	r, _ := set.Result(domain.MethodTesseract)
	require.True(t, r.Failed())

	// A later run waits on the per-key lock until the abandoned extraction
	// returns, then must compute afresh.
	rerun, _ := newTestComparison(t, asExtractors(mockExtractors()), cache, testTimeouts)
	again, err := rerun.Compare(context.Background(), exampleDoc())
	require.NoError(t, err)

	got, _ := again.Result(domain.MethodTesseract)
	assert.False(t, got.Failed())
	assert.False(t, got.Cached)
	assert.Equal(t, "text from tesseract", got.Text)

	data, err := os.ReadFile(filepath.Join(dir, "Ocr_tesseract.md"))
	require.NoError(t, err)
	assert.Equal(t, "text from tesseract", string(data))

	entry, err := manifest.Get(context.Background(), cache.Key("examples/Ocr.pdf", "tesseract"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("text from tesseract")), entry.Size)
}

func TestComparisonService_CompareCancelled(t *testing.T) {
	mocks := mockExtractors()
	for _, m := range mocks {
		m.delay = time.Second
	}
	svc, store := newTestComparison(t, asExtractors(mocks), nil, testTimeouts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	set, err := svc.Compare(ctx, exampleDoc())

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, set)

	recent, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestComparisonService_CompareInvalidDocument(t *testing.T) {
	mocks := mockExtractors()
	svc, _ := newTestComparison(t, asExtractors(mocks), nil, testTimeouts)

	_, err := svc.Compare(context.Background(), domain.Document{Name: "empty.pdf"})

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	for _, m := range mocks {
		assert.Zero(t, m.calls.Load())
	}
}

func TestComparisonService_CompareSavesResultSet(t *testing.T) {
	svc, _ := newTestComparison(t, asExtractors(mockExtractors()), nil, testTimeouts)
	ctx := context.Background()

	set, err := svc.Compare(ctx, exampleDoc())
	require.NoError(t, err)

	got, err := svc.Lookup(ctx, set.ID())
	require.NoError(t, err)
	assert.Same(t, set, got)

	recent, err := svc.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, set.ID(), recent[0].ID())
}

func TestComparisonService_LookupWithoutStore(t *testing.T) {
	svc, err := NewComparisonService(asExtractors(mockExtractors()), nil, nil, testTimeouts)
	require.NoError(t, err)

	_, err = svc.Lookup(context.Background(), "anything")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	recent, err := svc.Recent(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestComparisonService_CompareUsesCacheForExamples(t *testing.T) {
	mocks := mockExtractors()
	dir := t.TempDir()
	cache := file.New(dir, memory.NewCacheManifest())
	svc, _ := newTestComparison(t, asExtractors(mocks), cache, testTimeouts)
	ctx := context.Background()

	first, err := svc.Compare(ctx, exampleDoc())
	require.NoError(t, err)
	second, err := svc.Compare(ctx, exampleDoc())
	require.NoError(t, err)

	for _, m := range domain.AllMethods() {
		assert.Equal(t, int32(1), mocks[m].calls.Load(), m)

		a, _ := first.Result(m)
		b, _ := second.Result(m)
		assert.False(t, a.Cached)
		assert.True(t, b.Cached)
		assert.Equal(t, a.Text, b.Text)

		data, err := os.ReadFile(filepath.Join(dir, "Ocr_"+m.ID()+".md"))
		require.NoError(t, err)
		assert.Equal(t, a.Text, string(data))
	}
}

func TestComparisonService_CompareSkipsCacheForUploads(t *testing.T) {
	mocks := mockExtractors()
	dir := t.TempDir()
	cache := file.New(dir, nil)
	svc, _ := newTestComparison(t, asExtractors(mocks), cache, testTimeouts)
	ctx := context.Background()

	for range 2 {
		_, err := svc.Compare(ctx, uploadDoc())
		require.NoError(t, err)
	}

	for _, m := range mocks {
		assert.Equal(t, int32(2), m.calls.Load())
	}
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestComparisonService_CompareSkipsCacheForUnconfigured(t *testing.T) {
	mocks := mockExtractors()
	mistral := &configurableExtractor{mockExtractor: mocks[domain.MethodMistral], configured: false}
	mistral.text = "Mistral API key is not set in environment variables."

	extractors := []driven.Extractor{
		mocks[domain.MethodTesseract],
		mocks[domain.MethodDocling],
		mocks[domain.MethodPDFText],
		mistral,
	}
	dir := t.TempDir()
	svc, _ := newTestComparison(t, extractors, file.New(dir, nil), testTimeouts)
	ctx := context.Background()

	for range 2 {
		set, err := svc.Compare(ctx, exampleDoc())
		require.NoError(t, err)
		r, _ := set.Result(domain.MethodMistral)
		assert.Equal(t, mistral.text, r.Text)
		assert.False(t, r.Cached)
	}

	assert.Equal(t, int32(2), mocks[domain.MethodMistral].calls.Load())
	assert.Equal(t, int32(1), mocks[domain.MethodTesseract].calls.Load())
	assert.NoFileExists(t, filepath.Join(dir, "Ocr_mistral.md"))
	assert.FileExists(t, filepath.Join(dir, "Ocr_tesseract.md"))
}

func TestComparisonService_CompareDoesNotCacheFailures(t *testing.T) {
	mocks := mockExtractors()
	mocks[domain.MethodDocling].err = errors.New("503")
	dir := t.TempDir()
	svc, _ := newTestComparison(t, asExtractors(mocks), file.New(dir, nil), testTimeouts)

	_, err := svc.Compare(context.Background(), exampleDoc())
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(dir, "Ocr_docling.md"))
}

func TestComparisonService_Extract(t *testing.T) {
	mocks := mockExtractors()
	svc, _ := newTestComparison(t, asExtractors(mocks), nil, testTimeouts)

	r, err := svc.Extract(context.Background(), exampleDoc(), domain.MethodPDFText)

	require.NoError(t, err)
	assert.Equal(t, domain.MethodPDFText, r.Method)
	assert.Equal(t, "text from pdftext", r.Text)
	assert.Zero(t, mocks[domain.MethodTesseract].calls.Load())
}

func TestComparisonService_ExtractFailureInResult(t *testing.T) {
	mocks := mockExtractors()
	mocks[domain.MethodTesseract].err = domain.ErrToolNotFound
	svc, _ := newTestComparison(t, asExtractors(mocks), nil, testTimeouts)

	r, err := svc.Extract(context.Background(), exampleDoc(), domain.MethodTesseract)

	require.NoError(t, err)
	assert.True(t, r.Failed())
	assert.ErrorIs(t, r.Err, domain.ErrToolNotFound)
}

func TestComparisonService_ExtractUnsupportedMethod(t *testing.T) {
	svc, _ := newTestComparison(t, asExtractors(mockExtractors()), nil, testTimeouts)

	for _, m := range []domain.Method{domain.MethodOriginal, "pymupdf"} {
		_, err := svc.Extract(context.Background(), exampleDoc(), m)
		assert.ErrorIs(t, err, domain.ErrUnsupportedMethod, m)
	}
}
