package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
	"github.com/custodia-labs/medagent/internal/logger"
)

var (
	_ driven.ConditionStore = (*Store)(nil)
	_ driven.SeedingStore   = (*Store)(nil)
	_ driven.StatsStore     = (*Store)(nil)
)

// seedLockKey serialises concurrent seeders across processes.
const seedLockKey int64 = 0x6d6564616765 // "medage"

// pgvector limits.
const (
	// MaxIndexedDimensions is the largest vector an HNSW index accepts.
	MaxIndexedDimensions = 2000

	// maxEFSearch is the upper bound of hnsw.ef_search.
	maxEFSearch = 1000
)

// Store is a PostgreSQL + pgvector condition store.
type Store struct {
	pool       *pgxpool.Pool
	dimensions int
}

// NewStore connects to databaseURL and ensures the schema exists.
func NewStore(ctx context.Context, databaseURL string, dimensions int) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: postgres store needs a positive vector dimension", domain.ErrInvalidInput)
	}
	if dimensions > MaxIndexedDimensions {
		return nil, fmt.Errorf("%w: postgres store indexes at most %d dimensions, embedding model produces %d; "+
			"set embedding.dimensions or choose a smaller model",
			domain.ErrInvalidInput, MaxIndexedDimensions, dimensions)
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing database url: %w", domain.ErrStoreUnavailable, err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting: %w", domain.ErrStoreUnavailable, err)
	}

	s := &Store{pool: pool, dimensions: dimensions}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS conditions (
			id          UUID PRIMARY KEY,
			disease     TEXT NOT NULL,
			symptom     TEXT NOT NULL,
			embedding   vector(%d) NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dimensions),
		`CREATE INDEX IF NOT EXISTS idx_conditions_embedding
			ON conditions USING hnsw (embedding vector_cosine_ops)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w: creating schema: %w", domain.ErrStoreUnavailable, err)
		}
	}

	var stored int
	err := s.pool.QueryRow(ctx, `
		SELECT atttypmod FROM pg_attribute
		WHERE attrelid = 'conditions'::regclass AND attname = 'embedding'
	`).Scan(&stored)
	if err != nil {
		return fmt.Errorf("%w: reading embedding column: %w", domain.ErrStoreUnavailable, err)
	}
	if stored > 0 && stored != s.dimensions {
		return fmt.Errorf("%w: conditions.embedding is vector(%d), embedding model produces %d",
			domain.ErrDimensionMismatch, stored, s.dimensions)
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: postgres: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Count returns the number of stored conditions.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM conditions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: counting conditions: %w", domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

// InsertMany stores all conditions in a single transaction.
func (s *Store) InsertMany(ctx context.Context, conditions []domain.Condition) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return s.insertTx(ctx, tx, conditions)
	})
}

// InsertManyIfEmpty stores conditions only when the table is empty.
// A transaction-scoped advisory lock makes concurrent seeders queue up, so
// every seeder after the first sees a populated table.
func (s *Store) InsertManyIfEmpty(ctx context.Context, conditions []domain.Condition) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, seedLockKey); err != nil {
			return fmt.Errorf("%w: acquiring seed lock: %w", domain.ErrStoreUnavailable, err)
		}
		var populated bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM conditions)`).Scan(&populated); err != nil {
			return fmt.Errorf("%w: counting conditions: %w", domain.ErrStoreUnavailable, err)
		}
		if populated {
			return domain.ErrAlreadyPopulated
		}
		return s.insertTx(ctx, tx, conditions)
	})
}

func (s *Store) insertTx(ctx context.Context, tx pgx.Tx, conditions []domain.Condition) error {
	batch := &pgx.Batch{}
	for i, c := range conditions {
		if len(c.Vector) != s.dimensions {
			return fmt.Errorf("%w: condition %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(c.Vector), s.dimensions)
		}
		id := c.ID
		if id == "" {
			id = uuid.New().String()
		}
		batch.Queue(`INSERT INTO conditions (id, disease, symptom, embedding) VALUES ($1, $2, $3, $4::vector)`,
			id, c.Label, c.Description, pgvector.NewVector(c.Vector))
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%w: inserting conditions: %w", domain.ErrStoreUnavailable, err)
	}
	logger.Debug("postgres: inserted %d conditions", len(conditions))
	return nil
}

// NearestNeighbors runs an approximate cosine search over the HNSW index.
func (s *Store) NearestNeighbors(
	ctx context.Context, vector []float32, k, candidatePool int,
) ([]domain.ConditionMatch, error) {
	if len(vector) != s.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d",
			domain.ErrDimensionMismatch, len(vector), s.dimensions)
	}
	candidatePool = efSearch(candidatePool, k)

	var matches []domain.ConditionMatch
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT set_config('hnsw.ef_search', $1, true)`,
			fmt.Sprint(candidatePool)); err != nil {
			return fmt.Errorf("%w: setting ef_search: %w", domain.ErrStoreUnavailable, err)
		}

		rows, err := tx.Query(ctx, `
			SELECT id::text, disease, symptom, 1 - (embedding <=> $1::vector) AS score
			FROM conditions
			ORDER BY embedding <=> $1::vector
			LIMIT $2
		`, pgvector.NewVector(vector), k)
		if err != nil {
			return fmt.Errorf("%w: searching conditions: %w", domain.ErrStoreUnavailable, err)
		}

		matches, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ConditionMatch, error) {
			var m domain.ConditionMatch
			err := row.Scan(&m.ID, &m.Label, &m.Description, &m.Score)
			return m, err
		})
		if err != nil {
			return fmt.Errorf("%w: scanning matches: %w", domain.ErrStoreUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Stats reports the collection size and the column dimensionality.
func (s *Store) Stats(ctx context.Context) (domain.CorpusStats, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return domain.CorpusStats{}, err
	}
	return domain.CorpusStats{
		Count:      n,
		Dimensions: s.dimensions,
		Store:      domain.StoreDriverPostgres.String(),
	}, nil
}

// Truncate removes every stored condition.
func (s *Store) Truncate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `TRUNCATE conditions`); err != nil {
		return fmt.Errorf("%w: truncating conditions: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// efSearch widens the candidate pool to at least k and caps it at what
// pgvector accepts.
func efSearch(candidatePool, k int) int {
	return min(max(candidatePool, k), maxEFSearch)
}
