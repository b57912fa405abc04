package tesseract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
)

// fakeRunner emulates pdftoppm by writing page images next to the output prefix.
type fakeRunner struct {
	pages int
	err   error

	mu   sync.Mutex
	args []string
	pdf  string
}

func (f *fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.args = args
	prefix := args[len(args)-1]
	f.pdf = args[len(args)-2]
	if f.err != nil {
		return nil, f.err
	}
	for i := 1; i <= f.pages; i++ {
		name := fmt.Sprintf("%s-%d.png", prefix, i)
		if f.pages >= 10 {
			name = fmt.Sprintf("%s-%02d.png", prefix, i)
		}
		if err := os.WriteFile(name, []byte("png"), 0o600); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// fakeOCR returns canned text keyed by page number.
type fakeOCR struct {
	text  map[int]string
	fail  map[int]bool
	calls []string
}

func (f *fakeOCR) Recognize(_ context.Context, path string) (string, error) {
	f.calls = append(f.calls, filepath.Base(path))
	n := pageNumber(path)
	if f.fail[n] {
		return "", errors.New("ocr failed")
	}
	return f.text[n], nil
}

func (f *fakeOCR) Version() string { return "5.3.0" }

// stallingOCR answers the first page, then blocks until the context is done.
type stallingOCR struct{}

func (stallingOCR) Recognize(ctx context.Context, path string) (string, error) {
	if pageNumber(path) == 1 {
		return "page one text", nil
	}
	<-ctx.Done()
	return "", ctx.Err()
}

func (stallingOCR) Version() string { return "5.3.0" }

func newTestExtractor(cfg Config, runner driven.CommandRunner, ocr PageRecognizer) *Extractor {
	e := NewWithRunner(cfg, runner, ocr)
	e.lookPath = func(string) error { return nil }
	return e
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Extractor = (*Extractor)(nil)
}

func TestNew_Defaults(t *testing.T) {
	e := New(Config{}, &fakeOCR{})

	assert.Equal(t, "pdftoppm", e.cfg.Pdftoppm)
	assert.Equal(t, 300, e.cfg.DPI)
	assert.Equal(t, domain.MethodTesseract, e.Method())
	assert.Equal(t, "tesseract/5.3.0@300dpi", e.Version())
}

func TestExtract_SinglePageHasHeading(t *testing.T) {
	ocr := &fakeOCR{text: map[int]string{1: "Scanned invoice"}}
	e := newTestExtractor(Config{}, &fakeRunner{pages: 1}, ocr)

	out, err := e.Extract(context.Background(), []byte("%PDF-1.4 scan"))

	require.NoError(t, err)
	assert.Contains(t, out, "### Page 1")
	assert.Equal(t, "### Page 1\nScanned invoice\n\n", out)
}

func TestExtract_MultiplePagesInOrder(t *testing.T) {
	text := map[int]string{}
	for i := 1; i <= 12; i++ {
		text[i] = fmt.Sprintf("page %d text", i)
	}
	ocr := &fakeOCR{text: text}
	e := newTestExtractor(Config{}, &fakeRunner{pages: 12}, ocr)

	out, err := e.Extract(context.Background(), []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, 12, strings.Count(out, "### Page "))
	assert.Less(t, strings.Index(out, "### Page 2\n"), strings.Index(out, "### Page 10\n"))
	assert.Equal(t, "page-01.png", ocr.calls[0])
	assert.Equal(t, "page-12.png", ocr.calls[11])
}

func TestExtract_FailedPageKeepsEmptySection(t *testing.T) {
	ocr := &fakeOCR{
		text: map[int]string{1: "first", 3: "third"},
		fail: map[int]bool{2: true},
	}
	e := newTestExtractor(Config{}, &fakeRunner{pages: 3}, ocr)

	out, err := e.Extract(context.Background(), []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, "### Page 1\nfirst\n\n### Page 2\n\n\n### Page 3\nthird\n\n", out)
}

func TestExtract_DeadlineMidRunReturnsError(t *testing.T) {
	runner := &fakeRunner{pages: 3}
	e := newTestExtractor(Config{}, runner, stallingOCR{})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out, err := e.Extract(ctx, []byte("%PDF"))

	assert.Empty(t, out)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	_, statErr := os.Stat(runner.pdf)
	assert.True(t, os.IsNotExist(statErr), "temp pdf must be removed")
}

func TestExtract_CancelledBeforeOCR(t *testing.T) {
	ocr := &fakeOCR{text: map[int]string{1: "never read"}}
	e := newTestExtractor(Config{}, &fakeRunner{pages: 2}, ocr)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Extract(ctx, []byte("%PDF"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ocr.calls)
}

func TestExtract_PassesRasterArgs(t *testing.T) {
	runner := &fakeRunner{pages: 1}
	e := newTestExtractor(Config{DPI: 150, MaxPages: 2}, runner, &fakeOCR{})

	_, err := e.Extract(context.Background(), []byte("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, []string{"-r", "150", "-png", "-l", "2"}, runner.args[:5])
	_, statErr := os.Stat(runner.pdf)
	assert.True(t, os.IsNotExist(statErr), "temp pdf must be removed")
}

func TestExtract_MaxPagesTruncates(t *testing.T) {
	e := newTestExtractor(Config{MaxPages: 2}, &fakeRunner{pages: 4}, &fakeOCR{})

	out, err := e.Extract(context.Background(), []byte("%PDF"))

	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "### Page "))
}

func TestExtract_RunnerError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("syntax error in pdf")}
	e := newTestExtractor(Config{}, runner, &fakeOCR{})

	out, err := e.Extract(context.Background(), []byte("%PDF"))

	assert.Empty(t, out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdftoppm failed")
	_, statErr := os.Stat(runner.pdf)
	assert.True(t, os.IsNotExist(statErr), "temp pdf must be removed on failure")
}

func TestExtract_NoPages(t *testing.T) {
	e := newTestExtractor(Config{}, &fakeRunner{pages: 0}, &fakeOCR{})

	_, err := e.Extract(context.Background(), []byte("%PDF"))

	assert.ErrorIs(t, err, ErrNoPages)
}

func TestExtract_EmptyContent(t *testing.T) {
	e := newTestExtractor(Config{}, &fakeRunner{}, &fakeOCR{})

	_, err := e.Extract(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrEmptyDocument)
}

func TestExtract_ToolMissing(t *testing.T) {
	e := NewWithRunner(Config{}, &fakeRunner{pages: 1}, &fakeOCR{})
	e.lookPath = func(string) error { return errors.New("not found") }

	_, err := e.Extract(context.Background(), []byte("%PDF"))

	assert.ErrorIs(t, err, ErrPdftoppmNotFound)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestPageNumber(t *testing.T) {
	tests := []struct {
		path     string
		expected int
	}{
		{"/tmp/x/page-1.png", 1},
		{"/tmp/x/page-07.png", 7},
		{"/tmp/x/page-123.png", 123},
		{"/tmp/x/page.png", 0},
		{"/tmp/x/page-abc.png", 0},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, pageNumber(tt.path))
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftoppm")
	assert.Contains(t, instructions, "brew install poppler tesseract")
	assert.Contains(t, instructions, "apt install poppler-utils")
}
