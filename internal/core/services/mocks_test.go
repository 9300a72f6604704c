package services

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
)

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts listed in vectors get that vector; anything else gets fallback.
type mockEmbeddingService struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	failOn   string
	embedErr error
	calls    []string
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) (domain.Embedding, error) {
	m.mu.Lock()
	m.calls = append(m.calls, text)
	m.mu.Unlock()

	if m.embedErr != nil && (m.failOn == "" || strings.Contains(text, m.failOn)) {
		return domain.Embedding{}, m.embedErr
	}
	if v, ok := m.vectors[text]; ok {
		return domain.Embedding{Vector: v, TokensUsed: 3}, nil
	}
	return domain.Embedding{Vector: m.fallback, TokensUsed: 3}, nil
}

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockEmbeddingService) Dimensions() int {
	return len(m.fallback)
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	answer   string
	err      error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.messages = messages
	m.opts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// plainStore implements only driven.ConditionStore so the fallback paths
// for stores without seeding or stats support are exercised.
type plainStore struct {
	count     int
	countErr  error
	insertErr error
	inserted  []domain.Condition
	matches   []domain.ConditionMatch
	searchErr error
	lastK     int
	lastPool  int
}

func (s *plainStore) Count(_ context.Context) (int, error) {
	return s.count, s.countErr
}

func (s *plainStore) InsertMany(_ context.Context, conditions []domain.Condition) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, conditions...)
	s.count += len(conditions)
	return nil
}

func (s *plainStore) NearestNeighbors(_ context.Context, _ []float32, k, pool int) ([]domain.ConditionMatch, error) {
	s.lastK = k
	s.lastPool = pool
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	if len(s.matches) > k {
		return s.matches[:k], nil
	}
	return s.matches, nil
}

func (s *plainStore) Close() error {
	return nil
}

// racingStore reports an empty count but loses the seeding race.
type racingStore struct {
	plainStore
}

func (s *racingStore) InsertManyIfEmpty(_ context.Context, _ []domain.Condition) error {
	return domain.ErrAlreadyPopulated
}

// mockAIConfigValidator implements driven.AIConfigValidator for testing.
type mockAIConfigValidator struct {
	embeddingErr error
	llmErr       error
	embedding    *domain.EmbeddingSettings
	llm          *domain.LLMSettings
}

func (m *mockAIConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.embedding = config
	return m.embeddingErr
}

func (m *mockAIConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	m.llm = config
	return m.llmErr
}

var (
	_ driven.EmbeddingService  = (*mockEmbeddingService)(nil)
	_ driven.LLMService        = (*mockLLMService)(nil)
	_ driven.ConditionStore    = (*plainStore)(nil)
	_ driven.SeedingStore      = (*racingStore)(nil)
	_ driven.AIConfigValidator = (*mockAIConfigValidator)(nil)
)
