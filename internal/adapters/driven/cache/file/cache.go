package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
	"github.com/custodia-labs/pdfcompare/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.ResultCache = (*Cache)(nil)

// fileExt is the extension of every cache file.
const fileExt = ".md"

// Cache is a flat-directory implementation of driven.ResultCache.
type Cache struct {
	dir      string
	manifest driven.CacheManifest

	mu    sync.Mutex
	locks map[string]*keyLock
}

// keyLock serialises work on one cache path.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

// New creates a cache rooted at dir. manifest may be nil.
func New(dir string, manifest driven.CacheManifest) *Cache {
	return &Cache{
		dir:      dir,
		manifest: manifest,
		locks:    make(map[string]*keyLock),
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Key returns <dir>/<base>_<methodID>.md for a document identity.
func (c *Cache) Key(identity, methodID string) string {
	return filepath.Join(c.dir, baseName(identity)+"_"+methodID+fileExt)
}

// baseName strips directories and the extension from identity.
func baseName(identity string) string {
	base := filepath.Base(identity)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// GetOrCompute returns the cached text or computes, stores and returns it.
// Callers for the same key are serialised so compute runs at most once per key
// while the first caller is still working.
func (c *Cache) GetOrCompute(
	ctx context.Context,
	identity string,
	method domain.Method,
	version string,
	compute driven.ComputeFunc,
) (string, bool, error) {
	if identity == "" {
		return "", false, fmt.Errorf("%w: document identity is required", domain.ErrInvalidInput)
	}
	key := c.Key(identity, method.ID())

	unlock := c.lock(key)
	defer unlock()

	if text, ok := c.lookup(ctx, key, version); ok {
		logger.Debug("cache hit: %s", key)
		return text, true, nil
	}
	logger.Debug("cache miss: %s", key)

	text, err := compute(ctx)
	if err != nil {
		return "", false, err
	}
	if err := ctx.Err(); err != nil {
		logger.Debug("cache skip %s: %v", key, err)
		return "", false, err
	}

	if err := c.write(key, text); err != nil {
		logger.Warn("cache write %s: %v", key, err)
		return text, false, nil
	}
	c.record(ctx, domain.CacheEntry{
		Key:           key,
		Document:      identity,
		Method:        method,
		EngineVersion: version,
		Size:          int64(len(text)),
		CreatedAt:     time.Now().UTC(),
	})

	return text, false, nil
}

// lock acquires the per-key lock and returns its release function.
func (c *Cache) lock(key string) func() {
	c.mu.Lock()
	l, ok := c.locks[key]
	if !ok {
		l = &keyLock{}
		c.locks[key] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, key)
		}
		c.mu.Unlock()
	}
}

// lookup reads a cache file, treating a version mismatch in the manifest as a miss.
// Files without a manifest entry are trusted as-is.
func (c *Cache) lookup(ctx context.Context, key, version string) (string, bool) {
	data, err := os.ReadFile(key)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cache read %s: %v", key, err)
		}
		return "", false
	}

	if c.manifest != nil && version != "" {
		entry, err := c.manifest.Get(ctx, key)
		switch {
		case errors.Is(err, domain.ErrNotFound):
		case err != nil:
			logger.Warn("cache manifest lookup %s: %v", key, err)
		case entry.EngineVersion != "" && entry.EngineVersion != version:
			logger.Info("cache entry %s is stale (%s, want %s)", key, entry.EngineVersion, version)
			return "", false
		}
	}

	return string(data), true
}

// write stores text at key via a temp file and rename.
func (c *Cache) write(key, text string) error {
	if err := os.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(key), ".cache-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, key); err != nil {
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

func (c *Cache) record(ctx context.Context, entry domain.CacheEntry) {
	if c.manifest == nil {
		return
	}
	if err := c.manifest.Put(ctx, entry); err != nil {
		logger.Warn("cache manifest put %s: %v", entry.Key, err)
	}
}

// List returns one entry per cache file, enriched from the manifest when
// one is configured.
func (c *Cache) List(ctx context.Context) ([]domain.CacheEntry, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}

	recorded := map[string]domain.CacheEntry{}
	if c.manifest != nil {
		entries, err := c.manifest.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing manifest: %w", err)
		}
		for _, e := range entries {
			recorded[e.Key] = e
		}
	}

	var result []domain.CacheEntry //nolint:prealloc // non-cache files are skipped
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), fileExt) || strings.HasPrefix(f.Name(), ".") {
			continue
		}
		doc, method, ok := parseName(f.Name())
		if !ok {
			continue
		}
		key := filepath.Join(c.dir, f.Name())

		entry, known := recorded[key]
		if !known {
			entry = domain.CacheEntry{Key: key, Document: doc, Method: domain.Method(method)}
		}
		if info, err := f.Info(); err == nil {
			entry.Size = info.Size()
			if entry.CreatedAt.IsZero() {
				entry.CreatedAt = info.ModTime()
			}
		}
		result = append(result, entry)
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result, nil
}

// parseName splits "<base>_<method>.md" at the last underscore.
func parseName(name string) (base, method string, ok bool) {
	stem := strings.TrimSuffix(name, fileExt)
	idx := strings.LastIndex(stem, "_")
	if idx <= 0 || idx == len(stem)-1 {
		return "", "", false
	}
	return stem[:idx], stem[idx+1:], true
}

// Clear removes the cache files of one document, or every cache file when
// identity is empty. It returns the number of files removed.
func (c *Cache) Clear(ctx context.Context, identity string) (int, error) {
	entries, err := c.List(ctx)
	if err != nil {
		return 0, err
	}

	want := ""
	if identity != "" {
		want = baseName(identity)
	}

	removed := 0
	for _, e := range entries {
		if want != "" {
			base, _, _ := parseName(filepath.Base(e.Key))
			if base != want {
				continue
			}
		}
		unlock := c.lock(e.Key)
		err := os.Remove(e.Key)
		unlock()
		if err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("removing %s: %w", e.Key, err)
		}
		if c.manifest != nil {
			if err := c.manifest.Delete(ctx, e.Key); err != nil {
				logger.Warn("cache manifest delete %s: %v", e.Key, err)
			}
		}
		removed++
	}
	return removed, nil
}
