package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/medagent/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/medagent/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
)

// DatabaseFile is the file name of the database inside the data directory.
const DatabaseFile = "medagent.db"

var (
	_ driven.ConditionStore = (*Store)(nil)
	_ driven.SeedingStore   = (*Store)(nil)
	_ driven.StatsStore     = (*Store)(nil)
)

// Store is a SQLite-based condition store.
type Store struct {
	db         *sql.DB
	path       string
	dimensions int
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.medagent/data/medagent.db.
// A zero dimensions value disables the dimension check on insert.
func NewStore(dataDir string, dimensions int) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".medagent", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrStoreUnavailable, err)
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		dimensions: dimensions,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %w", domain.ErrStoreUnavailable, err)
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

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: sqlite: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
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
		// "001_conditions.up.sql" -> 1
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

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// Count returns the number of stored conditions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conditions").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting conditions: %w", domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

// InsertMany stores all conditions in a single transaction.
func (s *Store) InsertMany(ctx context.Context, conditions []domain.Condition) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.insertTx(ctx, tx, conditions)
	})
}

// InsertManyIfEmpty stores conditions only if the table is empty. The count
// and the inserts share one write transaction so concurrent seeders cannot
// both observe an empty table.
func (s *Store) InsertManyIfEmpty(ctx context.Context, conditions []domain.Condition) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		// Take the write lock before reading.
		if _, err := tx.ExecContext(ctx, "DELETE FROM conditions WHERE 0"); err != nil {
			return fmt.Errorf("%w: locking conditions: %w", domain.ErrStoreUnavailable, err)
		}
		var n int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM conditions").Scan(&n); err != nil {
			return fmt.Errorf("%w: counting conditions: %w", domain.ErrStoreUnavailable, err)
		}
		if n > 0 {
			return domain.ErrAlreadyPopulated
		}
		return s.insertTx(ctx, tx, conditions)
	})
}

func (s *Store) insertTx(ctx context.Context, tx *sql.Tx, conditions []domain.Condition) error {
	for i, c := range conditions {
		if len(c.Vector) == 0 || (s.dimensions > 0 && len(c.Vector) != s.dimensions) {
			return fmt.Errorf("%w: condition %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(c.Vector), s.dimensions)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO conditions (id, disease, symptom, embedding, dimensions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing insert: %w", domain.ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, c := range conditions {
		id := c.ID
		if id == "" {
			id = uuid.New().String()
		}
		if _, err := stmt.ExecContext(ctx, id, c.Label, c.Description,
			float32SliceToBytes(c.Vector), len(c.Vector), now); err != nil {
			return fmt.Errorf("%w: inserting condition %q: %w", domain.ErrStoreUnavailable, c.Label, err)
		}
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", domain.ErrStoreUnavailable, err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

type row struct {
	id          string
	label       string
	description string
	vector      []float32
}

// NearestNeighbors scans every stored vector and returns the k most similar.
// The scan is exact so candidatePool is ignored.
func (s *Store) NearestNeighbors(
	ctx context.Context, vector []float32, k, _ int,
) ([]domain.ConditionMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, disease, symptom, embedding FROM conditions ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying conditions: %w", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var all []row
	for rows.Next() {
		var r row
		var blob []byte
		if err := rows.Scan(&r.id, &r.label, &r.description, &blob); err != nil {
			return nil, fmt.Errorf("%w: scanning condition: %w", domain.ErrStoreUnavailable, err)
		}
		r.vector = bytesToFloat32Slice(blob)
		if len(r.vector) != len(vector) {
			return nil, fmt.Errorf("%w: query has %d dimensions, stored condition has %d",
				domain.ErrDimensionMismatch, len(vector), len(r.vector))
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating conditions: %w", domain.ErrStoreUnavailable, err)
	}

	top := vecmath.TopK(len(all), k, func(i int) float64 {
		return vecmath.Cosine(vector, all[i].vector)
	})

	matches := make([]domain.ConditionMatch, len(top))
	for i, hit := range top {
		r := all[hit.Index]
		matches[i] = domain.ConditionMatch{
			ID:          r.id,
			Label:       r.label,
			Description: r.description,
			Score:       hit.Score,
		}
	}
	return matches, nil
}

// Stats reports the collection size and the stored dimensionality.
func (s *Store) Stats(ctx context.Context) (domain.CorpusStats, error) {
	stats := domain.CorpusStats{Store: domain.StoreDriverSQLite.String(), Dimensions: s.dimensions}

	var dims sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*), MAX(dimensions) FROM conditions").Scan(&stats.Count, &dims)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.CorpusStats{}, fmt.Errorf("%w: reading stats: %w", domain.ErrStoreUnavailable, err)
	}
	if dims.Valid {
		stats.Dimensions = int(dims.Int64)
	}
	return stats, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
