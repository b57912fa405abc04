// Package pdftext provides the PDF-to-markdown method. It reads the embedded
// text layer with ledongthuc/pdf and turns positioned glyph runs into
// markdown: runs become lines, larger lines become headings.
package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/extractors"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// pageSeparator is written between pages.
const pageSeparator = "\n-----\n\n"

// Extractor converts the text layer of a PDF to markdown.
type Extractor struct{}

// New creates a PDF-to-markdown extractor.
func New() *Extractor {
	return &Extractor{}
}

// Method returns domain.MethodPDFText.
func (e *Extractor) Method() domain.Method {
	return domain.MethodPDFText
}

// Version returns the converter version tag.
func (e *Extractor) Version() string {
	return "pdftext/2"
}

// Extract converts the whole document in one pass.
func (e *Extractor) Extract(ctx context.Context, content []byte) (string, error) {
	if len(content) == 0 {
		return "", domain.ErrEmptyDocument
	}

	var out string
	err := extractors.WithTempFile(content, func(path string) error {
		pages, err := readPages(ctx, path)
		if err != nil {
			return err
		}
		out = Render(pages)
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// readPages collects the styled runs of every page.
func readPages(ctx context.Context, path string) ([][]Run, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF file: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([][]Run, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		runs, err := pageRuns(r, i)
		if err != nil {
			logger.Warn("pdftext: page %d: %v", i, err)
			runs = nil
		}
		pages = append(pages, runs)
	}
	logger.Debug("pdftext: read %d pages", total)
	return pages, nil
}

// pageRuns reads one page. The parser panics on some malformed content
// streams, so the panic is turned into an error for that page.
func pageRuns(r *pdf.Reader, n int) (runs []Run, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed content stream: %v", rec)
		}
	}()

	p := r.Page(n)
	if p.V.IsNull() {
		return nil, nil
	}
	for _, t := range p.Content().Text {
		runs = append(runs, Run{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, Font: t.Font, S: t.S})
	}
	return runs, nil
}

// Render turns per-page runs into markdown.
func Render(pages [][]Run) string {
	laid := make([][]Line, len(pages))
	var all []Line
	for i, runs := range pages {
		laid[i] = BuildLines(runs)
		all = append(all, laid[i]...)
	}
	body := BodySize(all)

	var parts []string
	for _, lines := range laid {
		if md := renderPage(lines, body); md != "" {
			parts = append(parts, md)
		}
	}
	return strings.Join(parts, pageSeparator)
}

func renderPage(lines []Line, body float64) string {
	var b strings.Builder
	for i, l := range lines {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		blankBefore := b.Len() > 0 && !strings.HasSuffix(b.String(), "\n\n")
		prefix := HeadingPrefix(l.Size, body)
		if blankBefore && (prefix != "" || paragraphBreak(lines[i-1], l)) {
			b.WriteString("\n")
		}
		if prefix != "" {
			b.WriteString(prefix + " " + text + "\n\n")
			continue
		}
		b.WriteString(text + "\n")
	}
	return b.String()
}

// paragraphBreak reports a vertical gap noticeably larger than one line.
func paragraphBreak(prev, cur Line) bool {
	size := prev.Size
	if size <= 0 {
		size = cur.Size
	}
	return prev.Y-cur.Y > size*1.8
}

// HeadingPrefix maps a line's font size relative to the body size to a
// markdown heading marker, or "" for body text.
func HeadingPrefix(size, body float64) string {
	if body <= 0 || size <= 0 {
		return ""
	}
	switch ratio := size / body; {
	case ratio >= 1.8:
		return "#"
	case ratio >= 1.4:
		return "##"
	case ratio >= 1.15:
		return "###"
	default:
		return ""
	}
}
