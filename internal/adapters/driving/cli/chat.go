package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/medagent/internal/adapters/driving/tui"
	"github.com/custodia-labs/medagent/internal/core/domain"
)

// isTerminal reports whether stdin is interactive. Tests replace it.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the medical assistant",
	Long: `Ask a medical question answered from the stored conditions.

With a message argument the answer is printed once. Without one, an
interactive chat opens when stdin is a terminal; otherwise the message
is read from stdin.

Controls (interactive):
  Enter   - Send
  PgUp/Dn - Scroll transcript
  Ctrl+L  - Clear transcript
  Esc     - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		if err := ensureServices(cmd.Context(), false); err != nil {
			return err
		}
	}
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if len(args) == 1 {
		return chatOnce(cmd, args[0])
	}
	if isTerminal() {
		return runChatTUI(cmd)
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	return chatOnce(cmd, strings.TrimSpace(string(data)))
}

func chatOnce(cmd *cobra.Command, message string) error {
	req, verr := domain.ValidateChatRequest(map[string]any{"message": message})
	if verr != nil {
		return verr
	}

	reply, err := chatService.Chat(cmd.Context(), req.Message)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	cmd.Println(reply.Response)
	if len(reply.RelatedConditions) > 0 {
		cmd.Println()
		cmd.Println("Related conditions:")
		for _, c := range reply.RelatedConditions {
			cmd.Printf("  - %s (%.2f)\n", c.Label, c.Score)
		}
	}
	return nil
}

func runChatTUI(cmd *cobra.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{Chat: chatService, Corpus: corpusService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(contextOrBackground(cmd))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
