// Package cli implements the mindsync command line: the interactive menu,
// chat, PHQ-9 screening and history commands, and the API server entrypoint.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mindsync/internal/assessment"
	"github.com/alexanderramin/mindsync/internal/conversation"
	"github.com/alexanderramin/mindsync/internal/triage"
)

// App holds the services used by CLI commands.
type App struct {
	Classifier   *triage.Classifier
	Conversation *conversation.Service
	Screenings   *assessment.Service

	// IsInteractive reports whether stdin is a terminal. Nil means not.
	IsInteractive func() bool

	// Serve runs the HTTP API until ctx is done.
	Serve func(ctx context.Context, addr string) error
	// DefaultAddr is the listen address used when --addr is not given.
	DefaultAddr string
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "mindsync" command. Without a
// subcommand it runs the console menu.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "mindsync",
		Short:         "Supportive chat companion with crisis triage and PHQ-9 screening",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, app)
		},
	}

	root.AddCommand(
		newChatCmd(app),
		newScreenCmd(app),
		newClassifyCmd(app),
		newHistoryCmd(app),
		newServeCmd(app),
	)
	return root
}
