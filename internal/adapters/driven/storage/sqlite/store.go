package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/pdfcompare/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/pdfcompare/internal/core/domain"
	"github.com/custodia-labs/pdfcompare/internal/core/ports/driven"
)

// DBName is the manifest file name inside the cache directory.
const DBName = "manifest.db"

// Store is a SQLite database holding the cache manifest.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the manifest database in dir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: manifest directory is required", domain.ErrInvalidInput)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating manifest directory: %w", err)
	}

	dbPath := filepath.Join(dir, DBName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CacheManifest returns a CacheManifest interface backed by this store.
func (s *Store) CacheManifest() driven.CacheManifest {
	return &cacheManifest{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_cache_manifest.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// schemaVersion returns the highest applied migration.
func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v)
	return v, err
}

// ==================== Cache Manifest ====================

// cacheManifest implements driven.CacheManifest.
type cacheManifest struct {
	store *Store
}

var _ driven.CacheManifest = (*cacheManifest)(nil)

// Get retrieves an entry by cache key.
func (m *cacheManifest) Get(ctx context.Context, key string) (*domain.CacheEntry, error) {
	row := m.store.db.QueryRowContext(ctx, `
		SELECT key, document, method, engine_version, size, created_at
		FROM cache_entries WHERE key = ?
	`, key)

	var entry domain.CacheEntry
	var method string
	var createdAt sql.NullTime
	if err := row.Scan(&entry.Key, &entry.Document, &method, &entry.EngineVersion,
		&entry.Size, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning cache entry: %w", err)
	}
	entry.Method = domain.Method(method)
	if createdAt.Valid {
		entry.CreatedAt = createdAt.Time
	}

	return &entry, nil
}

// Put stores or replaces an entry.
func (m *cacheManifest) Put(ctx context.Context, entry domain.CacheEntry) error {
	if entry.Key == "" {
		return fmt.Errorf("%w: cache entry key is required", domain.ErrInvalidInput)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := m.store.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, document, method, engine_version, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			document = excluded.document,
			method = excluded.method,
			engine_version = excluded.engine_version,
			size = excluded.size,
			created_at = excluded.created_at
	`, entry.Key, entry.Document, string(entry.Method), entry.EngineVersion, entry.Size, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving cache entry: %w", err)
	}
	return nil
}

// Delete removes an entry.
func (m *cacheManifest) Delete(ctx context.Context, key string) error {
	_, err := m.store.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting cache entry: %w", err)
	}
	return nil
}

// List returns all entries ordered by key.
func (m *cacheManifest) List(ctx context.Context) ([]domain.CacheEntry, error) {
	rows, err := m.store.db.QueryContext(ctx, `
		SELECT key, document, method, engine_version, size, created_at
		FROM cache_entries ORDER BY key
	`)
	if err != nil {
		return nil, fmt.Errorf("querying cache entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CacheEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		var entry domain.CacheEntry
		var method string
		var createdAt sql.NullTime
		if err := rows.Scan(&entry.Key, &entry.Document, &method, &entry.EngineVersion,
			&entry.Size, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning cache entry: %w", err)
		}
		entry.Method = domain.Method(method)
		if createdAt.Valid {
			entry.CreatedAt = createdAt.Time
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cache entries: %w", err)
	}

	return entries, nil
}
