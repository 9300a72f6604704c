// Package chat provides the conversational view of the TUI.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/medagent/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/medagent/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/medagent/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/medagent/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medagent/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medagent/internal/core/domain"
	"github.com/custodia-labs/medagent/internal/core/ports/driving"
)

// ErrNoChatService indicates that no chat service was provided.
var ErrNoChatService = errors.New("chat service is required")

const disclaimer = "Answers are informational and do not replace a consultation with a healthcare professional."

// chrome is the number of rows taken by the title, input and status bar.
const chrome = 7

type speaker int

const (
	speakerUser speaker = iota
	speakerAssistant
	speakerError
)

type entry struct {
	speaker    speaker
	text       string
	conditions []domain.ConditionMatch
}

// View is the chat transcript with an input line and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.MessageInput
	viewport  viewport.Model
	statusbar *status.Bar

	chatService driving.ChatService
	ctx         context.Context

	transcript []entry
	pending    bool
	width      int
	height     int
}

// NewView creates a chat view.
func NewView(s *styles.Styles, km *keymap.KeyMap, chatService driving.ChatService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:      s,
		keymap:      km,
		input:       input.NewMessageInput(s),
		viewport:    viewport.New(80, 24-chrome),
		statusbar:   status.NewBar(s, km),
		chatService: chatService,
		ctx:         context.Background(),
		width:       80,
		height:      24,
	}
	v.refresh()
	return v
}

// WithContext sets the context used for chat requests.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ChatCompleted:
		v.handleChatCompleted(msg)
		return v, nil

	case messages.StatsLoaded:
		if msg.Err == nil {
			v.statusbar.SetCorpus(msg.Stats.Count, msg.Stats.Store)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.statusbar, cmd = v.statusbar.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keymap.Send):
		text := strings.TrimSpace(v.input.Value())
		if text == "" || v.pending {
			return v, nil
		}
		v.input.Reset()
		v.pending = true
		v.transcript = append(v.transcript, entry{speaker: speakerUser, text: text})
		v.refresh()
		return v, tea.Batch(v.statusbar.StartThinking(), v.send(text))

	case key.Matches(msg, v.keymap.ScrollUp):
		v.viewport.HalfPageUp()
		return v, nil

	case key.Matches(msg, v.keymap.ScrollDown):
		v.viewport.HalfPageDown()
		return v, nil

	case key.Matches(msg, v.keymap.Clear):
		v.transcript = nil
		v.refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send asks the chat service in the background.
func (v *View) send(text string) tea.Cmd {
	if v.chatService == nil {
		return func() tea.Msg {
			return messages.ChatCompleted{Message: text, Err: ErrNoChatService}
		}
	}
	ctx, svc := v.ctx, v.chatService
	return func() tea.Msg {
		reply, err := svc.Chat(ctx, text)
		return messages.ChatCompleted{Message: text, Reply: reply, Err: err}
	}
}

func (v *View) handleChatCompleted(msg messages.ChatCompleted) {
	v.pending = false
	if msg.Err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		v.transcript = append(v.transcript, entry{speaker: speakerError, text: msg.Err.Error()})
	} else {
		v.statusbar.SetState(status.StateReady)
		v.transcript = append(v.transcript, entry{
			speaker:    speakerAssistant,
			text:       msg.Reply.Response,
			conditions: msg.Reply.RelatedConditions,
		})
	}
	v.refresh()
}

// refresh re-renders the transcript into the viewport and scrolls to the end.
func (v *View) refresh() {
	v.viewport.SetContent(v.renderTranscript())
	v.viewport.GotoBottom()
}

func (v *View) renderTranscript() string {
	wrap := lipgloss.NewStyle().Width(max(v.width-4, 20))
	if len(v.transcript) == 0 {
		return wrap.Render(v.styles.Muted.Render("Describe how you feel to get started.\n\n" + disclaimer))
	}

	var b strings.Builder
	for _, e := range v.transcript {
		switch e.speaker {
		case speakerUser:
			b.WriteString(v.styles.User.Render("You"))
			b.WriteString("\n")
			b.WriteString(wrap.Render(v.styles.Normal.Render(e.text)))
		case speakerAssistant:
			b.WriteString(v.styles.Assistant.Render("Assistant"))
			b.WriteString("\n")
			b.WriteString(wrap.Render(v.styles.Normal.Render(e.text)))
			for _, c := range e.conditions {
				b.WriteString("\n")
				b.WriteString(v.styles.Condition.Render(fmt.Sprintf("• %s (%.2f)", c.Label, c.Score)))
			}
		case speakerError:
			b.WriteString(wrap.Render(v.styles.Error.Render("Error: " + e.text)))
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// View renders the chat view.
func (v *View) View() string {
	title := v.styles.Title.Render("medagent") + v.styles.Muted.Render("  medical assistant")
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		v.viewport.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions resizes the view and its components.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-chrome, 1)
	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.refresh()
}

// Pending reports whether a message is awaiting its answer.
func (v *View) Pending() bool {
	return v.pending
}

// TranscriptLen returns the number of transcript entries.
func (v *View) TranscriptLen() int {
	return len(v.transcript)
}

// InputValue returns the text currently typed.
func (v *View) InputValue() string {
	return v.input.Value()
}
