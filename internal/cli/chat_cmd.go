package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/mindsync/internal/cli/formatter"
	"github.com/alexanderramin/mindsync/internal/conversation"
	"github.com/alexanderramin/mindsync/internal/domain"
)

func newChatCmd(app *App) *cobra.Command {
	var sessionID string
	var useTUI bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk with MindSync",
		RunE: func(cmd *cobra.Command, args []string) error {
			if useTUI {
				return runChatTUI(cmd, app, sessionID)
			}
			_, err := runChat(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout(), sessionID)
			return err
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing chat session")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "full-screen chat view")
	return cmd
}

// openSession resumes sessionID, or starts a new CLI session when it is empty.
func openSession(ctx context.Context, svc *conversation.Service, sessionID string) (string, error) {
	if sessionID == "" {
		sess, err := svc.StartSession(ctx, domain.ChannelCLI)
		if err != nil {
			return "", err
		}
		return sess.ID, nil
	}
	if _, err := svc.Transcript(ctx, sessionID, 1); err != nil {
		return "", err
	}
	return sessionID, nil
}

// runChat is the line-based chat loop. closed reports that input ended,
// as opposed to the user typing menu or exit.
func runChat(ctx context.Context, app *App, in io.Reader, out io.Writer, sessionID string) (closed bool, err error) {
	sessionID, err = openSession(ctx, app.Conversation, sessionID)
	if err != nil {
		return false, err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.Dim(chatHint))
	showSpinner := app.interactive() && app.Conversation.HasCompanion()

	for {
		fmt.Fprint(out, "\n"+userPrompt)
		line, err := readPromptLine(in)
		if errors.Is(err, io.EOF) && line == "" {
			fmt.Fprintln(out)
			return true, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}

		text := strings.TrimSpace(line)
		switch strings.ToLower(text) {
		case "":
			continue
		case "exit", "quit":
			fmt.Fprintln(out, formatter.StylePurple.Render(formatter.ReplyPrefix)+" "+takeCareLine)
			return false, nil
		case "menu":
			return false, nil
		}

		stop := func() {}
		if showSpinner {
			stop = formatter.StartSpinner(out, "Thinking...")
		}
		reply, err := app.Conversation.SendMessage(ctx, sessionID, text)
		stop()
		if err != nil {
			return false, err
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, formatter.FormatReply(reply.Text, reply.Result.IsCrisis))
	}
}

func runChatTUI(cmd *cobra.Command, app *App, sessionID string) error {
	ctx := cmd.Context()
	sessionID, err := openSession(ctx, app.Conversation, sessionID)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		newChatModel(ctx, app.Conversation, sessionID),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	return err
}
