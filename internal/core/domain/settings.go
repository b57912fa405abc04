package domain

import "time"

// DefaultMistralModel is the OCR model requested from the Mistral API.
const DefaultMistralModel = "mistral-ocr-latest"

// AppSettings holds all application configuration.
type AppSettings struct {
	Examples ExampleSettings
	Cache    CacheSettings
	OCR      OCRSettings
	Docling  DoclingSettings
	Mistral  MistralSettings
	Timeouts TimeoutSettings
}

// ExampleSettings locates the bundled example documents.
type ExampleSettings struct {
	// Dir is the directory holding example PDFs.
	Dir string
}

// CacheSettings controls the on-disk result cache.
type CacheSettings struct {
	// Dir is the directory holding cached markdown files.
	Dir string

	// Manifest enables the SQLite manifest that records engine versions.
	Manifest bool
}

// OCRSettings configures local OCR.
type OCRSettings struct {
	// Language is the tesseract language code.
	Language string

	// DPI is the rasterisation resolution.
	DPI int

	// MaxPages limits how many pages are OCRed. 0 means all pages.
	MaxPages int

	// TessdataDir overrides the tesseract data directory.
	TessdataDir string

	// Pdftoppm is the rasteriser binary name or path.
	Pdftoppm string
}

// DoclingSettings configures the structure converter backend.
type DoclingSettings struct {
	// URL is the docling-serve base URL.
	URL string

	// InsecureSkipVerify disables certificate validation for this backend only.
	InsecureSkipVerify bool

	// CAFile is an optional PEM bundle trusted for this backend.
	CAFile string
}

// MistralSettings configures the cloud OCR method.
type MistralSettings struct {
	// APIKey is the Mistral API key. Empty degrades the method to a notice.
	APIKey string

	// BaseURL is the API endpoint.
	BaseURL string

	// Model is the OCR model name.
	Model string
}

// IsConfigured returns true if an API key is present.
func (m MistralSettings) IsConfigured() bool {
	return m.APIKey != ""
}

// TimeoutSettings bounds how long each method may run.
type TimeoutSettings struct {
	// Method applies to local methods.
	Method time.Duration

	// Cloud applies to methods that call remote services.
	Cloud time.Duration
}

// For returns the timeout for a method.
func (t TimeoutSettings) For(m Method) time.Duration {
	switch m {
	case MethodDocling, MethodMistral:
		return t.Cloud
	default:
		return t.Method
	}
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Examples: ExampleSettings{
			Dir: "examples",
		},
		Cache: CacheSettings{
			Dir:      "cache",
			Manifest: true,
		},
		OCR: OCRSettings{
			Language: "eng",
			DPI:      300,
			Pdftoppm: "pdftoppm",
		},
		Docling: DoclingSettings{
			URL: "http://localhost:5001",
		},
		Mistral: MistralSettings{
			BaseURL: "https://api.mistral.ai",
			Model:   DefaultMistralModel,
		},
		Timeouts: TimeoutSettings{
			Method: 5 * time.Minute,
			Cloud:  2 * time.Minute,
		},
	}
}
