// Package engine provides the tesseract OCR engine backed by gosseract.
// It is kept apart from the extractor so the extractor builds without cgo.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Config controls the tesseract client.
type Config struct {
	// Languages are tesseract language codes. Defaults to ["eng"].
	Languages []string

	// TessdataDir overrides the tessdata location.
	TessdataDir string
}

// Engine recognises page images with libtesseract.
type Engine struct {
	cfg           Config
	clientFactory func() *gosseract.Client
}

// New creates a tesseract engine.
func New(cfg Config) *Engine {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"eng"}
	}
	return &Engine{cfg: cfg, clientFactory: gosseract.NewClient}
}

// Version returns the linked tesseract version.
func (e *Engine) Version() string {
	return strings.TrimSpace(gosseract.Version())
}

// Recognize runs OCR over one image. A fresh client is used per call so the
// engine is safe to share between concurrent comparisons.
func (e *Engine) Recognize(ctx context.Context, imagePath string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	c := e.clientFactory()
	defer c.Close()

	if e.cfg.TessdataDir != "" {
		if err := c.SetTessdataPrefix(e.cfg.TessdataDir); err != nil {
			return "", fmt.Errorf("set tessdata: %w", err)
		}
	}
	if err := c.SetLanguage(e.cfg.Languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetVariable("preserve_interword_spaces", "1"); err != nil {
		return "", fmt.Errorf("set variable: %w", err)
	}
	if err := c.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}
