// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/medagent/internal/core/domain"
)

// ChatCompleted carries the answer to a sent message back to the model.
type ChatCompleted struct {
	Message string
	Reply   domain.ChatReply
	Err     error
}

// StatsLoaded carries corpus statistics for the status bar.
type StatsLoaded struct {
	Stats domain.CorpusStats
	Err   error
}

// ErrorOccurred is sent when an operation fails outside a chat round trip.
type ErrorOccurred struct {
	Err error
}
