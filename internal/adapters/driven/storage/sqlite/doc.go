// Package sqlite provides the SQLite-backed cache manifest.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. The manifest records, for every cached extraction file, which document and
// method produced it, the engine version tag and the size, so that stale entries can
// be recomputed when an extractor changes.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// The database lives next to the cache files as manifest.db.
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
