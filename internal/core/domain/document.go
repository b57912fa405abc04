package domain

import (
	"path/filepath"
	"strings"
)

// Document is a PDF supplied for comparison.
type Document struct {
	// Name is the base file name (e.g., "Ocr.pdf").
	Name string

	// Path is where the document was read from. Empty for streamed uploads.
	Path string

	// Content is the raw PDF bytes.
	Content []byte

	// Cacheable is true for bundled examples, which have a stable identity.
	// Uploads are never cached.
	Cacheable bool
}

// Identity returns the value used to derive cache keys.
func (d Document) Identity() string {
	if d.Path != "" {
		return d.Path
	}
	return d.Name
}

// BaseName returns the file name without directory or extension.
func (d Document) BaseName() string {
	base := filepath.Base(d.Identity())
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Size returns the content length in bytes.
func (d Document) Size() int {
	return len(d.Content)
}

// Validate checks the document can be processed.
func (d Document) Validate() error {
	if strings.TrimSpace(d.Name) == "" && d.Path == "" {
		return ErrInvalidInput
	}
	if len(d.Content) == 0 {
		return ErrEmptyDocument
	}
	return nil
}

// Example describes one bundled example document.
type Example struct {
	// Label is the display name (e.g., "Example OCR PDF").
	Label string

	// Path is the file location relative to the working directory.
	Path string
}

// Name returns the example's file name.
func (e Example) Name() string {
	return filepath.Base(e.Path)
}
