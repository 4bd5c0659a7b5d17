package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/mindsync/internal/cli/formatter"
	"github.com/alexanderramin/mindsync/internal/domain"
	"github.com/alexanderramin/mindsync/internal/screening"
)

// answerer asks one question and returns the raw answer. io.EOF abandons
// the screening.
type answerer func(index int, question string) (string, error)

// confirmer asks a yes/no question. io.EOF counts as no.
type confirmer func(question string) (bool, error)

// screeningIO wires one screening run to its input and output. save stores
// the result unconditionally; otherwise confirm, when set, asks first.
type screeningIO struct {
	out     io.Writer
	answer  answerer
	save    bool
	confirm confirmer
}

func newScreenCmd(app *App) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "Take the PHQ-9 depression screening",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreening(cmd.Context(), app, screeningIO{
				out:    cmd.OutOrStdout(),
				answer: answererFor(app, cmd.InOrStdin(), cmd.OutOrStdout()),
				save:   save,
			})
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "store the result in history")
	return cmd
}

func answererFor(app *App, in io.Reader, out io.Writer) answerer {
	if app.interactive() {
		return huhAnswerer()
	}
	return lineAnswerer(in, out)
}

func confirmerFor(app *App, in io.Reader, out io.Writer) confirmer {
	if app.interactive() {
		return huhConfirmer()
	}
	return lineConfirmer(in, out)
}

func runScreening(ctx context.Context, app *App, sio screeningIO) error {
	out := sio.out
	fmt.Fprintln(out)
	fmt.Fprintln(out, screening.Instructions)

	sess := screening.NewSession()
	for sess.State() == screening.StateAwaiting {
		q, _ := sess.CurrentQuestion()
		raw, err := sio.answer(sess.Index(), q)
		if errors.Is(err, io.EOF) || errors.Is(err, huh.ErrUserAborted) {
			raw = "exit"
		} else if err != nil {
			return err
		}

		step, err := sess.Submit(raw)
		if err != nil {
			return err
		}
		switch step.Kind {
		case screening.StepRetry:
			fmt.Fprintln(out, step.Message)
		case screening.StepAbandoned:
			fmt.Fprintln(out, step.Message)
			return nil
		}
	}

	res, ok := sess.Result()
	if !ok {
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, formatter.Dim(scoringLine))
	fmt.Fprintln(out, formatter.FormatScreeningResult(res))

	save := sio.save
	if !save && sio.confirm != nil && app.Screenings != nil {
		ok, err := sio.confirm(savePrompt)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		save = ok && err == nil
	}
	if save && app.Screenings != nil {
		rec, err := app.Screenings.Save(ctx, domain.ChannelCLI, res)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, formatter.Dim("Saved to history as "+rec.ID))
	}
	return nil
}

func lineAnswerer(in io.Reader, out io.Writer) answerer {
	return func(index int, question string) (string, error) {
		fmt.Fprint(out, formatter.FormatQuestion(index, question))
		fmt.Fprint(out, formatter.AnswerPrompt)
		return readPromptLine(in)
	}
}

func huhAnswerer() answerer {
	options := make([]huh.Option[string], 0, len(screening.AnswerScale())+1)
	for _, o := range screening.AnswerScale() {
		v := strconv.Itoa(o.Value)
		options = append(options, huh.NewOption(v+" - "+o.Label, v))
	}
	options = append(options, huh.NewOption("Stop the screening", "exit"))

	return func(index int, question string) (string, error) {
		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(fmt.Sprintf("%d. %s", index, question)).
					Description(formatter.RenderProgress(index-1, screening.NumQuestions, screening.NumQuestions)).
					Options(options...).
					Value(&choice),
			),
		).WithTheme(mindsyncHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return "", err
		}
		return choice, nil
	}
}

func lineConfirmer(in io.Reader, out io.Writer) confirmer {
	return func(question string) (bool, error) {
		fmt.Fprint(out, question+" (y/N): ")
		line, err := readPromptLine(in)
		if err != nil && line == "" {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		}
		return false, nil
	}
}

func huhConfirmer() confirmer {
	return func(question string) (bool, error) {
		var ok bool
		err := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(question).
					Affirmative("Save").
					Negative("Don't save").
					Value(&ok),
			),
		).WithTheme(mindsyncHuhTheme()).WithShowHelp(false).Run()
		return ok, err
	}
}
