// Package ratelimit paces outbound provider calls with a token bucket.
//
// The decorators wrap any driven.EmbeddingService or driven.LLMService and
// block each call until the bucket has a token. They never retry: a call
// that fails upstream fails here too.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
)

// Config holds token bucket settings.
type Config struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables pacing.
	RequestsPerSecond float64

	// Burst is the maximum burst size (default 1).
	Burst int
}

// Enabled reports whether pacing is active.
func (c Config) Enabled() bool {
	return c.RequestsPerSecond > 0
}

func (c Config) limiter() *rate.Limiter {
	burst := c.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(c.RequestsPerSecond), burst)
}

// Ensure the decorators implement the interfaces.
var (
	_ driven.EmbeddingService = (*EmbeddingService)(nil)
	_ driven.LLMService       = (*LLMService)(nil)
)

// EmbeddingService paces Embed calls of the wrapped service.
type EmbeddingService struct {
	driven.EmbeddingService
	limiter *rate.Limiter
}

// WrapEmbedding returns next unchanged when cfg is disabled.
func WrapEmbedding(next driven.EmbeddingService, cfg Config) driven.EmbeddingService {
	if !cfg.Enabled() || next == nil {
		return next
	}
	return &EmbeddingService{EmbeddingService: next, limiter: cfg.limiter()}
}

// Embed waits for a token then delegates.
func (s *EmbeddingService) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return domain.Embedding{}, fmt.Errorf("%w: rate limit wait: %w", domain.ErrEmbeddingUnavailable, err)
	}
	return s.EmbeddingService.Embed(ctx, text)
}

// LLMService paces Chat calls of the wrapped service.
type LLMService struct {
	driven.LLMService
	limiter *rate.Limiter
}

// WrapLLM returns next unchanged when cfg is disabled.
func WrapLLM(next driven.LLMService, cfg Config) driven.LLMService {
	if !cfg.Enabled() || next == nil {
		return next
	}
	return &LLMService{LLMService: next, limiter: cfg.limiter()}
}

// Chat waits for a token then delegates.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limit wait: %w", domain.ErrLLMUnavailable, err)
	}
	return s.LLMService.Chat(ctx, messages, opts)
}
