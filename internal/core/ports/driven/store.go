package driven

import (
	"context"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

// ConditionStore persists conditions and answers nearest-neighbour queries.
// Implementations must be safe for concurrent use.
type ConditionStore interface {
	// Count returns the number of stored conditions.
	Count(ctx context.Context) (int, error)

	// InsertMany stores all conditions in one call, assigning IDs and
	// creation times. Vectors whose length differs from the collection
	// dimensionality are rejected with domain.ErrDimensionMismatch.
	InsertMany(ctx context.Context, conditions []domain.Condition) error

	// NearestNeighbors returns up to k conditions ordered by descending
	// cosine similarity to vector. candidatePool tunes approximate search
	// and is ignored by exact implementations. An empty result is valid.
	NearestNeighbors(ctx context.Context, vector []float32, k, candidatePool int) ([]domain.ConditionMatch, error)

	// Close releases resources.
	Close() error
}

// SeedingStore is implemented by stores that can insert only into an
// empty collection atomically. It returns domain.ErrAlreadyPopulated
// when another writer got there first.
type SeedingStore interface {
	InsertManyIfEmpty(ctx context.Context, conditions []domain.Condition) error
}

// StatsStore reports collection statistics.
type StatsStore interface {
	Stats(ctx context.Context) (domain.CorpusStats, error)
}
