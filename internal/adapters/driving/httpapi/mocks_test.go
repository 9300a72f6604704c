package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync/atomic"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
)

type mockIngestionService struct {
	result domain.IngestResult
	err    error
	got    []domain.ConditionInput
	calls  int
}

func (m *mockIngestionService) Ingest(_ context.Context, inputs []domain.ConditionInput) (domain.IngestResult, error) {
	m.calls++
	m.got = inputs
	return m.result, m.err
}

type mockSearchService struct {
	matches   []domain.ConditionMatch
	err       error
	gotQuery  string
	gotLimit  int
	callCount int
}

func (m *mockSearchService) Search(_ context.Context, query string, limit int) ([]domain.ConditionMatch, error) {
	m.callCount++
	m.gotQuery = query
	m.gotLimit = limit
	return m.matches, m.err
}

type mockChatService struct {
	reply domain.ChatReply
	err   error
	got   string
	calls int
}

func (m *mockChatService) Chat(_ context.Context, message string) (domain.ChatReply, error) {
	m.calls++
	m.got = message
	return m.reply, m.err
}

type mockCorpusService struct {
	stats domain.CorpusStats
	err   error
}

func (m *mockCorpusService) Stats(_ context.Context) (domain.CorpusStats, error) {
	return m.stats, m.err
}

// hashEmbedder is a deterministic embedding provider: the same text always
// yields the same unit-free vector.
type hashEmbedder struct {
	calls atomic.Int32
}

func (e *hashEmbedder) Embed(_ context.Context, text string) (domain.Embedding, error) {
	e.calls.Add(1)
	sum := sha256.Sum256([]byte(text))
	vec := make([]float32, 8)
	for i := range vec {
		vec[i] = float32(binary.LittleEndian.Uint32(sum[i*4:])%1000) + 1
	}
	return domain.Embedding{Vector: vec}, nil
}

func (e *hashEmbedder) Dimensions() int              { return 8 }
func (e *hashEmbedder) ModelName() string            { return "hash" }
func (e *hashEmbedder) Ping(_ context.Context) error { return nil }
func (e *hashEmbedder) Close() error                 { return nil }

// echoLLM answers with a fixed string and counts calls.
type echoLLM struct {
	calls atomic.Int32
}

func (l *echoLLM) Chat(_ context.Context, _ []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	l.calls.Add(1)
	return "Consult a physician.", nil
}

func (l *echoLLM) ModelName() string            { return "echo" }
func (l *echoLLM) Ping(_ context.Context) error { return nil }
func (l *echoLLM) Close() error                 { return nil }
