package extractors

import (
	"fmt"
	"os"

	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// tempPattern names the per-call temporary copies.
const tempPattern = "pdfcompare-*.pdf"

// WithTempFile writes content to a fresh temporary PDF file, calls fn with its
// path and removes the file afterwards, including when fn fails or panics.
// The underlying tools all need a path rather than a byte stream.
func WithTempFile(content []byte, fn func(path string) error) (err error) {
	f, err := os.CreateTemp("", tempPattern)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()

	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("failed to remove temp file %s: %v", path, rmErr)
		}
	}()

	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	return fn(path)
}

// WithTempDir creates a scratch directory for multi-file tools such as
// page rasterisers and removes it with its contents when fn returns.
func WithTempDir(fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", "pdfcompare-pages-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logger.Warn("failed to remove temp dir %s: %v", dir, rmErr)
		}
	}()
	return fn(dir)
}
