package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/mindsync/internal/cli/formatter"
	"github.com/alexanderramin/mindsync/internal/triage"
)

type classifyOutput struct {
	triage.SentimentResult
	Reply string `json:"reply"`
}

func newClassifyCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "classify TEXT...",
		Short: "Classify one message and show the reply it would get",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			res := app.Classifier.Classify(cmd.Context(), text)
			reply := triage.SelectReply(res)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(classifyOutput{SentimentResult: res, Reply: reply})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatClassification(res, reply))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}
