package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/google/uuid"

	"github.com/xtxerr/bikeshare/internal/config"
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/filter"
	"github.com/xtxerr/bikeshare/internal/loader"
	"github.com/xtxerr/bikeshare/internal/logging"
	"github.com/xtxerr/bikeshare/internal/paginate"
	"github.com/xtxerr/bikeshare/internal/stats"
	"github.com/xtxerr/bikeshare/internal/trips"
	"github.com/xtxerr/bikeshare/internal/validation"
)

// =============================================================================
// Input
// =============================================================================

// asker reads one answer to a question. choices feed completion where the
// input supports it.
type asker interface {
	Ask(question string, choices []string) (string, error)
}

// promptAsker reads answers from a terminal with tab completion. Ctrl-C ends
// the session with context.Canceled, Ctrl-D on an empty line with io.EOF.
type promptAsker struct {
	ctx context.Context
}

func (a *promptAsker) Ask(question string, choices []string) (string, error) {
	if err := a.ctx.Err(); err != nil {
		return "", err
	}

	suggestions := make([]prompt.Suggest, len(choices))
	for i, c := range choices {
		suggestions[i] = prompt.Suggest{Text: c}
	}
	completer := func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(suggestions, d.TextBeforeCursor(), true)
	}

	var keys inputKeys
	submit := func(*prompt.Buffer) { keys.submitted = true }

	fmt.Println(question)
	answer := prompt.Input("> ", completer,
		prompt.OptionPrefixTextColor(prompt.Cyan),
		prompt.OptionShowCompletionAtStart(),
		prompt.OptionAddKeyBind(
			prompt.KeyBind{Key: prompt.ControlC, Fn: func(*prompt.Buffer) { keys.interrupted = true }},
			prompt.KeyBind{Key: prompt.Enter, Fn: submit},
			prompt.KeyBind{Key: prompt.ControlM, Fn: submit},
			prompt.KeyBind{Key: prompt.ControlJ, Fn: submit},
		),
		prompt.OptionSetExitCheckerOnInput(func(string, bool) bool { return keys.interrupted }),
	)
	return keys.result(answer)
}

// inputKeys records which keys ended one prompt.Input call. Input returns ""
// for Ctrl-D, for an exit check and for an empty submitted line alike.
type inputKeys struct {
	submitted   bool
	interrupted bool
}

// result maps the way Input returned to an answer or a session-ending error.
// Ctrl-D only exits on an empty buffer, so a non-empty answer was submitted.
func (k inputKeys) result(answer string) (string, error) {
	switch {
	case k.interrupted:
		return "", context.Canceled
	case answer != "" || k.submitted:
		return answer, nil
	default:
		return "", io.EOF
	}
}

// lineAsker reads one answer per line, for pipes and tests.
type lineAsker struct {
	in  *bufio.Scanner
	out io.Writer
}

func newLineAsker(in io.Reader, out io.Writer) *lineAsker {
	return &lineAsker{in: bufio.NewScanner(in), out: out}
}

func (a *lineAsker) Ask(question string, _ []string) (string, error) {
	fmt.Fprintf(a.out, "%s\n> ", question)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return a.in.Text(), nil
}

// askValid asks until parse accepts the answer. Recoverable rejections are
// printed and the question repeats; anything else is returned.
func askValid[T any](a asker, out io.Writer, question string, choices []string, parse func(string) (T, error)) (T, error) {
	var zero T
	for {
		answer, err := a.Ask(question, choices)
		if err != nil {
			return zero, err
		}
		v, err := parse(answer)
		if err == nil {
			return v, nil
		}
		if !errors.IsRecoverable(err) {
			return zero, err
		}
		fmt.Fprintf(out, "Sorry, %q is not a valid answer. Try one of: %s\n", strings.TrimSpace(answer), strings.Join(choices, ", "))
	}
}

// =============================================================================
// Session
// =============================================================================

// session drives the explore loop: choose filters, show statistics, page
// through raw rows, restart.
type session struct {
	loader   *loader.Loader
	registry *trips.Registry
	opts     stats.Options
	pageSize int

	ask  asker
	out  io.Writer
	json bool
}

func newSession(cfg *config.Config, out io.Writer) *session {
	l := loader.FromConfig(cfg)
	return &session{
		loader:   l,
		registry: l.Registry(),
		opts:     stats.OptionsFromConfig(cfg),
		pageSize: cfg.Paging.PageSize,
		out:      out,
	}
}

// selection is one round's answers.
type selection struct {
	city   trips.City
	filter trips.Filter
}

func (s *session) run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Hello! Let's explore some US bikeshare data!")

	for {
		sel, err := s.choose()
		if err != nil {
			return err
		}

		table, err := s.summarize(ctx, sel)
		if err != nil {
			return err
		}

		if err := s.browse(table); err != nil {
			return err
		}

		again, err := askValid(s.ask, s.out, "Would you like to restart? Enter yes or no.",
			[]string{"yes", "no"}, validation.ParseYesNo)
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// oneShot prints a single summary for flag-supplied answers.
func (s *session) oneShot(ctx context.Context, city, month, day string) error {
	c, err := validation.ParseCity(s.registry, city)
	if err != nil {
		return err
	}
	f, err := validation.ParseFilter(month, day)
	if err != nil {
		return err
	}
	_, err = s.summarize(ctx, selection{city: c, filter: f})
	return err
}

func (s *session) choose() (selection, error) {
	var sel selection
	var err error

	cityChoices := s.registry.Names()
	sel.city, err = askValid(s.ask, s.out,
		fmt.Sprintf("Would you like to see data for %s?", strings.Join(cityChoices, ", ")),
		cityChoices,
		func(v string) (trips.City, error) { return validation.ParseCity(s.registry, v) })
	if err != nil {
		return sel, err
	}

	sel.filter.Month, err = askValid(s.ask, s.out,
		"Which month? January, February, March, April, May, June, or all?",
		validation.MonthChoices(), validation.ParseMonth)
	if err != nil {
		return sel, err
	}

	sel.filter.Day, err = askValid(s.ask, s.out,
		"Which day? Monday, Tuesday, ... Sunday, or all?",
		validation.DayChoices(), validation.ParseDay)
	if err != nil {
		return sel, err
	}

	return sel, nil
}

// summarize loads, filters and prints statistics, returning the filtered
// table for browsing.
func (s *session) summarize(ctx context.Context, sel selection) (*trips.Table, error) {
	runID := uuid.NewString()
	ctx = logging.ContextWithRunID(logging.ContextWithCity(ctx, sel.city.Name), runID)
	log := logging.WithContext(ctx)

	table, report, err := s.loader.LoadCity(ctx, sel.city)
	if err != nil {
		return nil, err
	}

	filtered := filter.Apply(table, sel.filter)
	log.Debug("filter applied", "month", sel.filter.Month, "day", sel.filter.Day,
		"rows", filtered.Len(), "of", table.Len())

	summary, err := stats.Summarize(ctx, filtered, sel.filter, s.opts)
	if err != nil {
		return nil, err
	}
	summary.RunID = runID
	log.Info("summary computed", "rows", summary.Rows, "empty", summary.Empty())

	if s.json {
		return filtered, writeJSON(s.out, summary)
	}
	writeReport(s.out, report)
	writeSummary(s.out, summary)
	return filtered, nil
}

// browse offers the filtered rows a page at a time.
func (s *session) browse(t *trips.Table) error {
	cursor, shown := 0, 0
	pages := paginate.Pages(t, s.pageSize)
	question := "Would you like to see 5 lines of raw data? Enter yes or no."
	if s.pageSize != paginate.DefaultPageSize {
		question = fmt.Sprintf("Would you like to see %d lines of raw data? Enter yes or no.", s.pageSize)
	}

	for {
		show, err := askValid(s.ask, s.out, question, []string{"yes", "no"}, validation.ParseYesNo)
		if err != nil || !show {
			return err
		}

		page := paginate.NextPageSize(t, cursor, s.pageSize)
		if len(page.Rows) > 0 {
			shown++
			writeRows(s.out, t.City, page)
			fmt.Fprintf(s.out, "Page %d of %d\n", shown, pages)
		}
		if !page.HasMore {
			fmt.Fprintln(s.out, "No more raw data to display.")
			return nil
		}
		cursor = page.Cursor
		question = "Would you like to see more raw data? Enter yes or no."
	}
}
