package messages

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/medagent/internal/core/domain"
)

func TestChatCompleted_CarriesReply(t *testing.T) {
	msg := ChatCompleted{
		Message: "I have a fever",
		Reply: domain.ChatReply{
			Response:  "Rest.",
			Timestamp: time.Unix(0, 0),
		},
	}

	assert.Equal(t, "I have a fever", msg.Message)
	assert.Equal(t, "Rest.", msg.Reply.Response)
	assert.NoError(t, msg.Err)
}

func TestErrorOccurred(t *testing.T) {
	err := errors.New("boom")
	msg := ErrorOccurred{Err: err}

	assert.ErrorIs(t, msg.Err, err)
}
