package services

import (
	"context"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// CorpusService reports on the stored conditions.
type CorpusService struct {
	store      driven.ConditionStore
	dimensions int
	driver     domain.StoreDriver
}

// NewCorpusService creates a new corpus service. Dimensions and driver
// fill in the stats for stores that cannot report them.
func NewCorpusService(store driven.ConditionStore, dimensions int, driver domain.StoreDriver) *CorpusService {
	return &CorpusService{store: store, dimensions: dimensions, driver: driver}
}

// Stats returns the number of stored conditions and their dimensionality.
func (s *CorpusService) Stats(ctx context.Context) (domain.CorpusStats, error) {
	if ss, ok := s.store.(driven.StatsStore); ok {
		return ss.Stats(ctx)
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return domain.CorpusStats{}, err
	}
	return domain.CorpusStats{Count: n, Dimensions: s.dimensions, Store: s.driver.String()}, nil
}
