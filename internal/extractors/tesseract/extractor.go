// Package tesseract implements the local OCR method: every page is rasterised
// with pdftoppm and the page images are run through tesseract one by one.
package tesseract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/extractors"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPdftoppmNotFound is returned when the rasteriser binary is missing.
var ErrPdftoppmNotFound = fmt.Errorf("%w: pdftoppm not found in PATH (install poppler)", domain.ErrToolNotFound)

// ErrNoPages is returned when rasterisation produced no page images.
var ErrNoPages = errors.New("pdftoppm produced no page images")

// PageRecognizer runs OCR over a single page image.
type PageRecognizer interface {
	// Recognize returns the text found in the image at path.
	Recognize(ctx context.Context, imagePath string) (string, error)

	// Version identifies the OCR engine.
	Version() string
}

// Config controls rasterisation.
type Config struct {
	// Pdftoppm is the binary name or path. Defaults to "pdftoppm".
	Pdftoppm string

	// DPI is the rasterisation resolution. Defaults to 300.
	DPI int

	// MaxPages limits OCR to the first N pages. 0 means all pages.
	MaxPages int
}

// Extractor is the local OCR method.
type Extractor struct {
	cfg      Config
	runner   driven.CommandRunner
	ocr      PageRecognizer
	lookPath func(string) error
}

// New creates a local OCR extractor that shells out to pdftoppm.
func New(cfg Config, ocr PageRecognizer) *Extractor {
	return NewWithRunner(cfg, extractors.ExecRunner{}, ocr)
}

// NewWithRunner creates an extractor with a custom command runner (for testing).
func NewWithRunner(cfg Config, runner driven.CommandRunner, ocr PageRecognizer) *Extractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{
		cfg:      cfg,
		runner:   runner,
		ocr:      ocr,
		lookPath: extractors.LookPath,
	}
}

// Method returns domain.MethodTesseract.
func (e *Extractor) Method() domain.Method {
	return domain.MethodTesseract
}

// Version returns the OCR engine version tag.
func (e *Extractor) Version() string {
	if e.ocr == nil {
		return "tesseract/unknown"
	}
	return "tesseract/" + e.ocr.Version() + fmt.Sprintf("@%ddpi", e.cfg.DPI)
}

// CheckAvailable reports whether pdftoppm can be found.
func (e *Extractor) CheckAvailable() error {
	if err := e.lookPath(e.cfg.Pdftoppm); err != nil {
		return ErrPdftoppmNotFound
	}
	return nil
}

// Extract rasterises every page and OCRs it, emitting a "### Page N" heading
// per page. A page that fails OCR keeps its heading with an empty body.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	if len(content) == 0 {
		return "", domain.ErrEmptyDocument
	}
	if e.ocr == nil {
		return "", fmt.Errorf("%w: no OCR engine configured", domain.ErrInvalidInput)
	}
	if err := e.CheckAvailable(); err != nil {
		return "", err
	}

	var out string
	err := extractors.WithTempFile(content, func(pdfPath string) error {
		return extractors.WithTempDir(func(dir string) error {
			pages, err := e.rasterise(ctx, pdfPath, dir)
			if err != nil {
				return err
			}
			out, err = e.recognisePages(ctx, pages)
			return err
		})
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// rasterise renders the PDF into dir and returns page images in page order.
func (e *Extractor) rasterise(ctx context.Context, pdfPath, dir string) ([]string, error) {
	prefix := filepath.Join(dir, "page")
	args := []string{"-r", strconv.Itoa(e.cfg.DPI), "-png"}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	args = append(args, pdfPath, prefix)

	// pdftoppm -r 300 -png <in.pdf> <dir/page>
	if _, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w", err)
	}

	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("listing page images: %w", err)
	}
	if len(matches) == 0 {
		return nil, ErrNoPages
	}
	sortPages(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	logger.Debug("tesseract: rasterised %d pages at %d dpi", len(matches), e.cfg.DPI)
	return matches, nil
}

// recognisePages OCRs pages in order. A page whose OCR fails keeps an empty
// section; a done context aborts the run with no text.
func (e *Extractor) recognisePages(ctx context.Context, pages []string) (string, error) {
	var b strings.Builder
	for i, img := range pages {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("ocr stopped before page %d: %w", i+1, err)
		}
		text, err := e.ocr.Recognize(ctx, img)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", fmt.Errorf("ocr stopped at page %d: %w", i+1, ctxErr)
			}
			logger.Warn("tesseract: page %d: %v", i+1, err)
			text = ""
		}
		fmt.Fprintf(&b, "### Page %d\n%s\n\n", i+1, text)
	}
	return b.String(), nil
}

// sortPages orders pdftoppm output by page number.
func sortPages(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		return pageNumber(paths[i]) < pageNumber(paths[j])
	})
}

func pageNumber(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), ".png")
	idx := strings.LastIndex(base, "-")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(base[idx+1:])
	if err != nil {
		return 0
	}
	return n
}

// InstallInstructions returns platform-specific install hints.
func InstallInstructions() string {
	return `Local OCR needs pdftoppm (poppler) and tesseract:
  macOS:         brew install poppler tesseract
  Ubuntu/Debian: apt install poppler-utils tesseract-ocr libtesseract-dev
  Fedora:        dnf install poppler-utils tesseract tesseract-devel`
}
