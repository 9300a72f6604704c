// Package sqlite provides a SQLite-backed condition store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Embedding vectors are stored as
// little-endian float32 BLOBs and searched with an exact cosine scan, which is
// adequate for corpora of a few thousand conditions.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.medagent/data/medagent.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode, and seeding runs inside a write transaction.
package sqlite
