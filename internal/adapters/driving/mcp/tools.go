package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

// ErrChatUnavailable is returned by the chat tool when no chat service is wired.
var ErrChatUnavailable = errors.New("mcp: chat service is not configured")

// SearchInput is the input schema for the search_conditions tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"symptoms or condition name to look up"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of conditions to return (default 5, max 20)"`
}

// SearchOutput is the output schema for the search_conditions tool.
type SearchOutput struct {
	Results []ConditionOutput `json:"results"`
	Count   int               `json:"count"`
}

// ConditionOutput is a single matched condition.
type ConditionOutput struct {
	ID      string  `json:"id"`
	Disease string  `json:"disease"`
	Symptom string  `json:"symptom"`
	Score   float64 `json:"score"`
}

// ChatInput is the input schema for the ask_medical_assistant tool.
type ChatInput struct {
	Message string `json:"message" jsonschema:"the question to ask, at most 1000 characters"`
}

// ChatOutput is the output schema for the ask_medical_assistant tool.
type ChatOutput struct {
	Response          string            `json:"response"`
	RelatedConditions []ConditionOutput `json:"related_conditions"`
	Timestamp         string            `json:"timestamp"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_conditions",
		Description: "Find stored medical conditions whose symptoms are closest to the query",
	}, s.handleSearch)

	if s.ports.Chat != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask_medical_assistant",
			Description: "Ask a medical question answered from the stored conditions",
		}, s.handleChat)
	}
}

// handleSearch handles the search_conditions tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	query := input.Query
	if query == "" {
		return nil, SearchOutput{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	matches, err := s.ports.Search.Search(ctx, query, domain.NormalizeSearchLimit(input.Limit))
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{
		Results: toConditionOutputs(matches),
		Count:   len(matches),
	}, nil
}

// handleChat handles the ask_medical_assistant tool invocation.
func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	if s.ports.Chat == nil {
		return nil, ChatOutput{}, ErrChatUnavailable
	}
	if input.Message == "" {
		return nil, ChatOutput{}, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(input.Message) > domain.MaxMessageLength {
		return nil, ChatOutput{}, fmt.Errorf("%w: message is too long, maximum %d characters allowed",
			domain.ErrInvalidInput, domain.MaxMessageLength)
	}

	reply, err := s.ports.Chat.Chat(ctx, input.Message)
	if err != nil {
		return nil, ChatOutput{}, err
	}

	return nil, ChatOutput{
		Response:          reply.Response,
		RelatedConditions: toConditionOutputs(reply.RelatedConditions),
		Timestamp:         reply.Timestamp.UTC().Format(time.RFC3339Nano),
	}, nil
}

func toConditionOutputs(matches []domain.ConditionMatch) []ConditionOutput {
	out := make([]ConditionOutput, len(matches))
	for i, m := range matches {
		out[i] = ConditionOutput{
			ID:      m.ID,
			Disease: m.Label,
			Symptom: m.Description,
			Score:   m.Score,
		}
	}
	return out
}
