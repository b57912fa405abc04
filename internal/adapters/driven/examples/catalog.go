// Package examples provides the bundled example document catalog.
package examples

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Ensure Catalog implements the interface.
var _ driven.ExampleCatalog = (*Catalog)(nil)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("catalog is closed")

// Default example labels and file names.
const (
	OCRLabel    = "Example OCR PDF"
	OCRFile     = "Ocr.pdf"
	NonOCRLabel = "Example Non-OCR PDF"
	NonOCRFile  = "Non_Ocr.pdf"
)

// Catalog lists the two default examples plus any other PDF in its directory.
type Catalog struct {
	dir string

	mu     sync.Mutex
	closed bool
	cancel []context.CancelFunc
}

// New creates a catalog over dir.
func New(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Dir returns the examples directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// defaults returns the two bundled examples.
func (c *Catalog) defaults() []domain.Example {
	return []domain.Example{
		{Label: OCRLabel, Path: filepath.Join(c.dir, OCRFile)},
		{Label: NonOCRLabel, Path: filepath.Join(c.dir, NonOCRFile)},
	}
}

// List returns the defaults, whether or not their files exist, followed by
// other PDFs in the directory sorted by name.
func (c *Catalog) List(_ context.Context) ([]domain.Example, error) {
	examples := c.defaults()
	known := map[string]bool{OCRFile: true, NonOCRFile: true}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return examples, nil
		}
		return nil, fmt.Errorf("reading examples directory: %w", err)
	}

	var extra []domain.Example
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || known[name] || isHidden(name) || !isPDF(name) {
			continue
		}
		extra = append(extra, domain.Example{
			Label: strings.TrimSuffix(name, filepath.Ext(name)),
			Path:  filepath.Join(c.dir, name),
		})
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Label < extra[j].Label })

	return append(examples, extra...), nil
}

// Resolve finds the example matching name by label, file name or base name.
func (c *Catalog) Resolve(ctx context.Context, name string) (domain.Example, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Example{}, fmt.Errorf("%w: example name is required", domain.ErrInvalidInput)
	}

	examples, err := c.List(ctx)
	if err != nil {
		return domain.Example{}, err
	}
	for _, ex := range examples {
		file := ex.Name()
		base := strings.TrimSuffix(file, filepath.Ext(file))
		if strings.EqualFold(ex.Label, name) || strings.EqualFold(file, name) || strings.EqualFold(base, name) {
			return ex, nil
		}
	}
	return domain.Example{}, fmt.Errorf("%w: %s", domain.ErrExampleNotFound, filepath.Join(c.dir, name))
}

// Load reads an example into a cacheable document.
func (c *Catalog) Load(ctx context.Context, name string) (domain.Document, error) {
	ex, err := c.Resolve(ctx, name)
	if err != nil {
		return domain.Document{}, err
	}

	content, err := os.ReadFile(ex.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrExampleNotFound, ex.Path)
		}
		return domain.Document{}, fmt.Errorf("reading example %s: %w", ex.Path, err)
	}

	doc := domain.Document{
		Name:      ex.Name(),
		Path:      ex.Path,
		Content:   content,
		Cacheable: true,
	}
	if err := doc.Validate(); err != nil {
		return domain.Document{}, fmt.Errorf("%w: %s", err, ex.Path)
	}
	logger.Debug("loaded example %q (%d bytes)", ex.Label, len(content))
	return doc, nil
}

// Watch emits a notification whenever a PDF in the directory is created,
// written, removed or renamed. Bursts are coalesced into one notification.
func (c *Catalog) Watch(ctx context.Context) (<-chan struct{}, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = append(c.cancel, cancel)
	c.mu.Unlock()

	info, err := os.Stat(c.dir)
	if err != nil || !info.IsDir() {
		cancel()
		return nil, fmt.Errorf("examples directory error: %s is not a directory", c.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(c.dir); err != nil {
		watcher.Close()
		cancel()
		return nil, fmt.Errorf("watching %s: %w", c.dir, err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !relevant(event) {
					continue
				}
				logger.Debug("examples: %s %s", event.Op, event.Name)
				select {
				case changes <- struct{}{}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("examples watcher: %v", err)
			}
		}
	}()

	return changes, nil
}

// relevant reports whether event changes the example list.
func relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if isHidden(name) || !isPDF(name) {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// Close stops all watchers. It is safe to call more than once.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, cancel := range c.cancel {
		cancel()
	}
	c.cancel = nil
	return nil
}

func isPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
