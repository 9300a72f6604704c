package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/medagent/internal/adapters/driven/storage/vecmath"
	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
)

// Ensure ConditionStore implements the interfaces.
var (
	_ driven.ConditionStore = (*ConditionStore)(nil)
	_ driven.SeedingStore   = (*ConditionStore)(nil)
	_ driven.StatsStore     = (*ConditionStore)(nil)
)

// ConditionStore is an in-memory implementation of driven.ConditionStore.
// Search is an exact cosine scan over every stored vector.
type ConditionStore struct {
	mu         sync.RWMutex
	conditions []domain.Condition
	dimensions int
}

// NewConditionStore creates a new in-memory condition store.
// A zero dimensions value adopts the length of the first inserted vector.
func NewConditionStore(dimensions int) *ConditionStore {
	return &ConditionStore{dimensions: dimensions}
}

// Count returns the number of stored conditions.
func (s *ConditionStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conditions), nil
}

// InsertMany stores all conditions or none.
func (s *ConditionStore) InsertMany(_ context.Context, conditions []domain.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(conditions)
}

// InsertManyIfEmpty stores conditions only when the collection is empty.
func (s *ConditionStore) InsertManyIfEmpty(_ context.Context, conditions []domain.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.conditions) > 0 {
		return domain.ErrAlreadyPopulated
	}
	return s.insertLocked(conditions)
}

func (s *ConditionStore) insertLocked(conditions []domain.Condition) error {
	dims := s.dimensions
	for i, c := range conditions {
		if dims == 0 {
			dims = len(c.Vector)
		}
		if len(c.Vector) != dims || dims == 0 {
			return fmt.Errorf("%w: condition %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(c.Vector), dims)
		}
	}

	now := time.Now().UTC()
	for _, c := range conditions {
		c.ID = uuid.New().String()
		c.CreatedAt = now
		c.Vector = append([]float32(nil), c.Vector...)
		s.conditions = append(s.conditions, c)
	}
	s.dimensions = dims
	return nil
}

// NearestNeighbors returns the k most similar conditions.
// The scan is exact so candidatePool is ignored.
func (s *ConditionStore) NearestNeighbors(
	_ context.Context, vector []float32, k, _ int,
) ([]domain.ConditionMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.conditions) > 0 && len(vector) != s.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d",
			domain.ErrDimensionMismatch, len(vector), s.dimensions)
	}

	top := vecmath.TopK(len(s.conditions), k, func(i int) float64 {
		return vecmath.Cosine(vector, s.conditions[i].Vector)
	})

	matches := make([]domain.ConditionMatch, len(top))
	for i, hit := range top {
		c := s.conditions[hit.Index]
		matches[i] = domain.ConditionMatch{
			ID:          c.ID,
			Label:       c.Label,
			Description: c.Description,
			Score:       hit.Score,
		}
	}
	return matches, nil
}

// Stats reports the collection size and dimensionality.
func (s *ConditionStore) Stats(_ context.Context) (domain.CorpusStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CorpusStats{
		Count:      len(s.conditions),
		Dimensions: s.dimensions,
		Store:      domain.StoreDriverMemory.String(),
	}, nil
}

// All returns a copy of every stored condition in insertion order.
func (s *ConditionStore) All() []domain.Condition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Condition, len(s.conditions))
	copy(out, s.conditions)
	return out
}

// Close releases resources.
func (s *ConditionStore) Close() error {
	return nil
}
