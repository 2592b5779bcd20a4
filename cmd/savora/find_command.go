package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/savora/core/internal/app"
	"github.com/savora/core/internal/domain"
	"github.com/savora/core/internal/usecase"
)

const findHelp = "Type to search. Enter + for more results, a blank line cancels a pending search."

func newRecipesFindCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Search interactively as you type",
		Long: "Read queries from standard input, one per line. A query runs once input\n" +
			"has been quiet for the configured search debounce, so queries typed in\n" +
			"quick succession only search for the last one.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(a *app.App) error {
				return runFindLoop(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), a)
			})
		},
	}
}

// findSession holds the paginator of the latest query. The debouncer calls
// run from its own goroutine, so all output goes through mu.
type findSession struct {
	ctx       context.Context
	out       io.Writer
	recipes   *usecase.RecipeService
	favorites *usecase.FavoritesStore

	mu        sync.Mutex
	query     string
	paginator *usecase.Paginator[domain.Recipe]
	shown     int
}

// run starts a fresh search for query and shows its first page
func (s *findSession) run(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.paginator = s.recipes.NewSearchPaginator(query)
	s.shown = 0
	fmt.Fprintf(s.out, "Results for %q\n", query)
	s.loadLocked()
}

// more shows the next page of the current query
func (s *findSession) more() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paginator == nil {
		fmt.Fprintln(s.out, "Type a query first")
		return
	}
	s.loadLocked()
}

func (s *findSession) loadLocked() {
	issued, err := s.paginator.OnSentinelVisible(s.ctx)
	if err != nil {
		fmt.Fprintf(s.out, "Search failed: %v\n", err)
		return
	}
	if !issued {
		fmt.Fprintln(s.out, "No more results")
		return
	}

	items := s.paginator.Items()
	if len(items) == 0 {
		fmt.Fprintf(s.out, "No recipes match %q\n", s.query)
		return
	}
	fresh := items[s.shown:]
	if len(fresh) == 0 {
		fmt.Fprintln(s.out, "No more results")
		return
	}
	fmt.Fprint(s.out, renderRecipeTable(fresh, s.favorites))
	s.shown = len(items)
	if s.paginator.State() != usecase.PageExhausted {
		fmt.Fprintln(s.out, "Enter + for more")
	}
}

// runFindLoop feeds each input line through the search debouncer. A
// search still pending when input ends runs before returning.
func runFindLoop(ctx context.Context, in io.Reader, out io.Writer, a *app.App) error {
	session := &findSession{
		ctx:       ctx,
		out:       out,
		recipes:   a.Recipes,
		favorites: a.Favorites,
	}
	debouncer := a.NewSearchDebouncer(session.run)
	defer debouncer.Cancel()

	fmt.Fprintln(out, findHelp)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		switch line := strings.TrimSpace(scanner.Text()); line {
		case "":
			debouncer.Cancel()
		case "+":
			debouncer.Flush()
			session.more()
		default:
			debouncer.Trigger(line)
		}
	}

	debouncer.Flush()
	return scanner.Err()
}
