package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medagent/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medagent/internal/core/domain"
)

// seededStore returns a memory store holding three orthogonal conditions.
func seededStore(t *testing.T) *memory.ConditionStore {
	t.Helper()
	store := memory.NewConditionStore(3)
	require.NoError(t, store.InsertMany(context.Background(), []domain.Condition{
		{Label: "Diabetes", Description: "Thirst", Vector: []float32{1, 0, 0}},
		{Label: "Hypertension", Description: "Headaches", Vector: []float32{0, 1, 0}},
		{Label: "Asthma", Description: "Wheezing", Vector: []float32{0, 0, 1}},
	}))
	return store
}

func TestSearchService_Search_OrdersBySimilarity(t *testing.T) {
	embedder := &mockEmbeddingService{
		vectors:  map[string][]float32{"thirsty and tired": {0.9, 0.3, 0.1}},
		fallback: []float32{0, 0, 1},
	}
	svc := NewSearchService(embedder, seededStore(t), 100)

	matches, err := svc.Search(context.Background(), "thirsty and tired", 2)

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Diabetes", matches[0].Label)
	assert.Equal(t, "Hypertension", matches[1].Label)
	assert.Equal(t, []string{"thirsty and tired"}, embedder.calls, "query text is embedded verbatim")
}

func TestSearchService_Search_LimitNormalised(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantK     int
		wantPool  int
		candidate int
	}{
		{"zero uses default", 0, domain.DefaultSearchLimit, 100, 100},
		{"negative uses default", -3, domain.DefaultSearchLimit, 100, 100},
		{"capped at max", 500, domain.MaxSearchLimit, 100, 100},
		{"pool never below k", 10, 10, 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &plainStore{}
			svc := NewSearchService(&mockEmbeddingService{fallback: []float32{1}}, store, tt.candidate)

			matches, err := svc.Search(context.Background(), "fever", tt.limit)

			require.NoError(t, err)
			assert.NotNil(t, matches)
			assert.Equal(t, tt.wantK, store.lastK)
			assert.Equal(t, tt.wantPool, store.lastPool)
		})
	}
}

func TestSearchService_Search_EmptyQuery(t *testing.T) {
	svc := NewSearchService(&mockEmbeddingService{}, &plainStore{}, 100)
	_, err := svc.Search(context.Background(), "", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearchService_Search_EmbedsQueryUnmodified(t *testing.T) {
	embedder := &mockEmbeddingService{fallback: []float32{1, 0}}
	svc := NewSearchService(embedder, &plainStore{}, 100)

	_, err := svc.Search(context.Background(), "  dry cough ", 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"  dry cough "}, embedder.calls)
}

func TestSearchService_Search_Failures(t *testing.T) {
	t.Run("embedding", func(t *testing.T) {
		svc := NewSearchService(&mockEmbeddingService{embedErr: domain.ErrEmbeddingUnavailable}, &plainStore{}, 100)
		_, err := svc.Search(context.Background(), "fever", 5)
		assert.ErrorIs(t, err, domain.ErrSearchFailed)
		assert.ErrorIs(t, err, domain.ErrProcessingFailed)
	})

	t.Run("store", func(t *testing.T) {
		svc := NewSearchService(&mockEmbeddingService{fallback: []float32{1}},
			&plainStore{searchErr: domain.ErrStoreUnavailable}, 100)
		_, err := svc.Search(context.Background(), "fever", 5)
		assert.ErrorIs(t, err, domain.ErrSearchFailed)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})
}
