package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/savora/core/internal/app"
	"github.com/savora/core/internal/usecase"
)

const cookHelp = "Commands: [n]ext, [p]revious, <number> go to step, [t]imer start/pause, [r]eset timer, [q]uit"

func newCookCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cook <id>",
		Short: "Cook a recipe one step at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				recipe, err := a.Recipes.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				session, err := usecase.NewCookingSession(recipe, nil)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cooking %s\n%s\n", recipe.Title, cookHelp)
				return runCookLoop(cmd.InOrStdin(), cmd.OutOrStdout(), session)
			})
		},
	}
}

// runCookLoop reads one command per line until the session is done, the
// user quits or input ends
func runCookLoop(in io.Reader, out io.Writer, session *usecase.CookingSession) error {
	printStep(out, session)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch input {
		case "", "n", "next":
			if !session.Next() {
				fmt.Fprintf(out, "Done! Total time %s\n", usecase.FormatStopwatch(session.Elapsed()))
				return nil
			}
		case "p", "prev", "previous":
			if !session.Previous() {
				fmt.Fprintln(out, "Already at the first step")
			}
		case "t", "timer":
			if session.Progress().Running {
				session.PauseTimer()
				fmt.Fprintf(out, "Timer paused at %s\n", usecase.FormatStopwatch(session.Elapsed()))
			} else {
				session.StartTimer()
				fmt.Fprintln(out, "Timer running")
			}
			continue
		case "r", "reset":
			session.ResetTimer()
			fmt.Fprintln(out, "Timer reset")
			continue
		case "q", "quit":
			return nil
		case "h", "help", "?":
			fmt.Fprintln(out, cookHelp)
			continue
		default:
			step, err := strconv.Atoi(input)
			if err != nil {
				fmt.Fprintln(out, cookHelp)
				continue
			}
			if err := session.GoTo(step - 1); err != nil {
				fmt.Fprintf(out, "There is no step %d\n", step)
				continue
			}
		}
		printStep(out, session)
	}
	return scanner.Err()
}

func printStep(out io.Writer, session *usecase.CookingSession) {
	progress := session.Progress()
	timer := ""
	if progress.Running || progress.Elapsed > 0 {
		timer = " [" + usecase.FormatStopwatch(progress.Elapsed) + "]"
	}
	fmt.Fprintf(out, "\nStep %d of %d%s\n%s\n", progress.Step, progress.Total, timer, progress.Current)
}
