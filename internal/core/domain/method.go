package domain

import (
	"fmt"
	"strings"
)

// Method identifies one extraction method.
// The string value is the stable short ID used in cache keys.
type Method string

// Available extraction methods.
const (
	// MethodTesseract rasterises pages and runs local OCR on each one.
	MethodTesseract Method = "tesseract"

	// MethodDocling converts through a document-structure parser.
	MethodDocling Method = "docling"

	// MethodPDFText converts the text layer straight to markdown.
	MethodPDFText Method = "pdftext"

	// MethodMistral sends the document to the Mistral OCR API.
	MethodMistral Method = "mistral"

	// MethodOriginal is the pseudo-method holding the raw document bytes.
	MethodOriginal Method = "original"
)

// AllMethods returns the extraction methods in display order.
// The original pseudo-method is not included.
func AllMethods() []Method {
	return []Method{MethodTesseract, MethodDocling, MethodPDFText, MethodMistral}
}

// IsValid returns true if the method is a recognised extraction method.
func (m Method) IsValid() bool {
	switch m {
	case MethodTesseract, MethodDocling, MethodPDFText, MethodMistral:
		return true
	default:
		return false
	}
}

// ID returns the short identifier used as a cache key component.
func (m Method) ID() string {
	return string(m)
}

// String returns the string representation.
func (m Method) String() string {
	return string(m)
}

// Label returns the display name of the method.
func (m Method) Label() string {
	switch m {
	case MethodTesseract:
		return "Tesseract OCR"
	case MethodDocling:
		return "Docling Conversion"
	case MethodPDFText:
		return "PDF Markdown Conversion"
	case MethodMistral:
		return "Mistral OCR"
	case MethodOriginal:
		return "Original Document"
	default:
		return "Unknown"
	}
}

// Description returns a short human-readable description of the method.
func (m Method) Description() string {
	switch m {
	case MethodTesseract:
		return "local OCR of rasterised pages (pdftoppm + tesseract)"
	case MethodDocling:
		return "document-structure conversion (docling-serve)"
	case MethodPDFText:
		return "layout-aware text layer to markdown"
	case MethodMistral:
		return "cloud OCR (Mistral OCR API)"
	case MethodOriginal:
		return "the document as uploaded"
	default:
		return "Unknown"
	}
}

// ParseMethod resolves a method from its ID or label, case-insensitively.
func ParseMethod(s string) (Method, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, m := range append(AllMethods(), MethodOriginal) {
		if needle == m.ID() || needle == strings.ToLower(m.Label()) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, s)
}
