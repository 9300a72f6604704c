package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driven"
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
	"github.com/custodia-labs/medagent/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService answers a message using retrieved conditions as context.
type ChatService struct {
	search   *SearchService
	llm      driven.LLMService
	settings domain.ChatSettings
	now      func() time.Time
}

// NewChatService creates a new chat service. Retrieval goes through search
// so both paths embed and look up conditions the same way.
func NewChatService(search *SearchService, llm driven.LLMService, settings domain.ChatSettings) *ChatService {
	return &ChatService{
		search:   search,
		llm:      llm,
		settings: settings,
		now:      time.Now,
	}
}

// Chat runs embed, retrieve, build prompt, complete. A failure in any step
// fails the request with domain.ErrChatFailed.
func (s *ChatService) Chat(ctx context.Context, message string) (domain.ChatReply, error) {
	logger.Section("Chat")
	logger.Info("Processing chat request")

	if message == "" {
		return domain.ChatReply{}, fmt.Errorf("%w: message must not be empty", domain.ErrInvalidInput)
	}

	matches, err := s.search.nearest(ctx, message, s.settings.TopK)
	if err != nil {
		logger.Error("Retrieving conditions: %v", err)
		return domain.ChatReply{}, fmt.Errorf("%w: %w", domain.ErrChatFailed, err)
	}
	logger.Info("Found %d similar conditions", len(matches))

	systemPrompt := BuildSystemPrompt(BuildMedicalContext(matches))

	logger.Debug("Sending request to %s", s.llm.ModelName())
	answer, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: systemPrompt},
		{Role: driven.RoleUser, Content: message},
	}, driven.ChatOptions{
		MaxTokens:   s.settings.MaxTokens,
		Temperature: s.settings.Temperature,
	})
	if err != nil {
		logger.Error("Querying language model: %v", err)
		return domain.ChatReply{}, fmt.Errorf("%w: %w", domain.ErrChatFailed, err)
	}
	if strings.TrimSpace(answer) == "" {
		answer = FallbackResponse
	}
	logger.Debug("Received response from %s", s.llm.ModelName())

	return domain.ChatReply{
		Response:          answer,
		RelatedConditions: matches,
		Timestamp:         s.now().UTC(),
	}, nil
}
