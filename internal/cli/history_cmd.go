package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/mindsync/internal/cli/formatter"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show saved screenings and chat transcripts",
	}

	cmd.AddCommand(
		newHistoryScreeningsCmd(app),
		newHistoryChatCmd(app),
	)
	return cmd
}

func newHistoryScreeningsCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "screenings",
		Short: "List saved PHQ-9 results, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Screenings.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatScreeningHistory(records))
			return nil
		},
	}

	limitFlag(cmd.Flags(), &limit, 10, "results")
	return cmd
}

func newHistoryChatCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "chat [SESSION]",
		Short: "List chat sessions, or print one transcript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 0 {
				sessions, err := app.Conversation.RecentSessions(ctx, limit)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionList(sessions))
				return nil
			}

			msgs, err := app.Conversation.Transcript(ctx, args[0], limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTranscript(args[0], msgs))
			return nil
		},
	}

	limitFlag(cmd.Flags(), &limit, 20, "sessions or messages")
	return cmd
}

// limitFlag registers the shared --limit/-n flag.
func limitFlag(fs *pflag.FlagSet, p *int, def int, what string) {
	fs.IntVarP(p, "limit", "n", def, "number of "+what+" to show")
}
