package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
)

var fixedNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func newChatService(embedder *mockEmbeddingService, store driven.ConditionStore, llm *mockLLMService) *ChatService {
	chat := NewChatService(NewSearchService(embedder, store, 100), llm, domain.DefaultSettings().Chat)
	chat.now = func() time.Time { return fixedNow }
	return chat
}

func TestChatService_Chat(t *testing.T) {
	embedder := &mockEmbeddingService{fallback: []float32{0.9, 0.4, 0.1}}
	llm := &mockLLMService{answer: "Please see a doctor."}
	svc := newChatService(embedder, seededStore(t), llm)

	reply, err := svc.Chat(context.Background(), "I am always thirsty")

	require.NoError(t, err)
	assert.Equal(t, "Please see a doctor.", reply.Response)
	assert.Equal(t, fixedNow, reply.Timestamp)
	require.Len(t, reply.RelatedConditions, 3)
	assert.Equal(t, "Diabetes", reply.RelatedConditions[0].Label)
	assert.Equal(t, "Hypertension", reply.RelatedConditions[1].Label)

	require.Len(t, llm.messages, 2)
	assert.Equal(t, driven.RoleSystem, llm.messages[0].Role)
	assert.Contains(t, llm.messages[0].Content, "1. Disease: Diabetes\n   Symptoms: Thirst")
	assert.Equal(t, driven.ChatMessage{Role: driven.RoleUser, Content: "I am always thirsty"}, llm.messages[1])
	assert.Equal(t, driven.ChatOptions{MaxTokens: 500, Temperature: 0.7}, llm.opts)
	assert.Equal(t, []string{"I am always thirsty"}, embedder.calls)
}

func TestChatService_Chat_TopKBoundsContext(t *testing.T) {
	store := &plainStore{matches: []domain.ConditionMatch{
		{Label: "A"}, {Label: "B"}, {Label: "C"}, {Label: "D"},
	}}
	llm := &mockLLMService{answer: "ok"}
	svc := newChatService(&mockEmbeddingService{fallback: []float32{1}}, store, llm)

	reply, err := svc.Chat(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, 3, store.lastK)
	assert.Len(t, reply.RelatedConditions, 3)
	assert.NotContains(t, llm.messages[0].Content, "Disease: D")
}

func TestChatService_Chat_NoMatches(t *testing.T) {
	llm := &mockLLMService{answer: "I have no data."}
	svc := newChatService(&mockEmbeddingService{fallback: []float32{1}}, &plainStore{}, llm)

	reply, err := svc.Chat(context.Background(), "hello")

	require.NoError(t, err)
	assert.Empty(t, reply.RelatedConditions)
	assert.NotNil(t, reply.RelatedConditions)
	assert.Contains(t, llm.messages[0].Content, NoConditionsContext)
}

func TestChatService_Chat_EmptyCompletionUsesFallback(t *testing.T) {
	svc := newChatService(&mockEmbeddingService{fallback: []float32{1}}, &plainStore{}, &mockLLMService{answer: ""})

	reply, err := svc.Chat(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, FallbackResponse, reply.Response)
}

func TestChatService_Chat_Failures(t *testing.T) {
	t.Run("embedding", func(t *testing.T) {
		llm := &mockLLMService{answer: "unused"}
		svc := newChatService(&mockEmbeddingService{embedErr: domain.ErrEmbeddingUnavailable}, &plainStore{}, llm)

		_, err := svc.Chat(context.Background(), "hello")

		assert.ErrorIs(t, err, domain.ErrChatFailed)
		assert.Nil(t, llm.messages, "no completion is requested after a retrieval failure")
	})

	t.Run("llm", func(t *testing.T) {
		svc := newChatService(&mockEmbeddingService{fallback: []float32{1}}, &plainStore{},
			&mockLLMService{err: domain.ErrLLMUnavailable})

		_, err := svc.Chat(context.Background(), "hello")

		assert.ErrorIs(t, err, domain.ErrChatFailed)
		assert.ErrorIs(t, err, domain.ErrProcessingFailed)
	})

	t.Run("empty message", func(t *testing.T) {
		svc := newChatService(&mockEmbeddingService{}, &plainStore{}, &mockLLMService{})
		_, err := svc.Chat(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestChatService_Chat_WhitespaceMessagePassesThrough(t *testing.T) {
	embedder := &mockEmbeddingService{fallback: []float32{1, 0}}
	llm := &mockLLMService{answer: "Could you describe your symptoms?"}
	svc := newChatService(embedder, &plainStore{}, llm)

	reply, err := svc.Chat(context.Background(), "   ")

	require.NoError(t, err)
	assert.Equal(t, "Could you describe your symptoms?", reply.Response)
	assert.Equal(t, []string{"   "}, embedder.calls)
	require.Len(t, llm.messages, 2)
	assert.Equal(t, "   ", llm.messages[1].Content)
}
