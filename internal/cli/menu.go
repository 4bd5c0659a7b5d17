package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/mindsync/internal/cli/formatter"
)

const (
	menuChat   = "1"
	menuScreen = "2"
	menuExit   = "3"
)

// menuChooser returns the raw menu choice. io.EOF ends the menu.
type menuChooser func() (string, error)

func runMenu(cmd *cobra.Command, app *App) error {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()

	fmt.Fprintln(out, formatter.Bold(welcomeBanner))
	fmt.Fprintln(out, formatter.Dim(navHint))
	if !app.Classifier.HasExternal() {
		fmt.Fprintln(out, formatter.Dim(fallbackNote))
	}

	choose := lineMenuChooser(in, out)
	if app.interactive() {
		choose = huhMenuChooser()
	}

	for {
		choice, err := choose()
		if errors.Is(err, io.EOF) || errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, goodbyeLine)
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(choice) {
		case menuChat:
			closed, err := runChat(cmd.Context(), app, in, out, "")
			if err != nil {
				return err
			}
			if closed {
				fmt.Fprintln(out, goodbyeLine)
				return nil
			}
		case menuScreen:
			if err := runScreening(cmd.Context(), app, screeningIO{
				out:     out,
				answer:  answererFor(app, in, out),
				confirm: confirmerFor(app, in, out),
			}); err != nil {
				return err
			}
		case menuExit:
			fmt.Fprintln(out, goodbyeLine)
			return nil
		default:
			fmt.Fprintln(out, menuRetry)
		}
	}
}

func lineMenuChooser(in io.Reader, out io.Writer) menuChooser {
	return func() (string, error) {
		fmt.Fprintln(out)
		fmt.Fprintln(out, formatter.Header("Menu"))
		fmt.Fprintln(out, "1) Chat with MindSync")
		fmt.Fprintln(out, "2) Take PHQ-9 screening")
		fmt.Fprintln(out, "3) Exit")
		fmt.Fprint(out, "Choose (1/2/3): ")
		return readPromptLine(in)
	}
}

func huhMenuChooser() menuChooser {
	return func() (string, error) {
		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("What would you like to do?").
					Options(
						huh.NewOption("Chat with MindSync", menuChat),
						huh.NewOption("Take PHQ-9 screening", menuScreen),
						huh.NewOption("Exit", menuExit),
					).
					Value(&choice),
			),
		).WithTheme(mindsyncHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return "", err
		}
		return choice, nil
	}
}
