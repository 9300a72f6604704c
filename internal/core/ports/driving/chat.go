package driving

import (
	"context"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

// ChatService answers medical questions grounded on stored conditions.
type ChatService interface {
	Chat(ctx context.Context, message string) (domain.ChatReply, error)
}
