package stats

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/logging"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// Section is one aggregator's outcome inside a Summary.
type Section[T any] struct {
	// Result is nil when the section had nothing to aggregate.
	Result T `json:"result,omitempty"`

	// Empty is set when the aggregator returned ErrEmptyResult.
	Empty bool `json:"empty,omitempty"`

	// Err is the ErrEmptyResult error when Empty is set.
	Err error `json:"-"`

	// Elapsed is the time the aggregator took.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Summary is the full set of statistics for one filtered table.
type Summary struct {
	// RunID identifies the analysis run in logs; set by the caller.
	RunID string `json:"run_id,omitempty"`

	City   string       `json:"city"`
	Filter trips.Filter `json:"filter"`
	Rows   int          `json:"rows"`

	Times     Section[*TimeStats]     `json:"times"`
	Stations  Section[*StationStats]  `json:"stations"`
	Durations Section[*DurationStats] `json:"durations"`
	Users     Section[*UserStats]     `json:"users"`
}

// Summarize runs all four aggregators over t concurrently. f is the filter
// t was produced with. Empty sections are recorded, not returned; any other
// error aborts the summary.
func Summarize(ctx context.Context, t *trips.Table, f trips.Filter, opts Options) (*Summary, error) {
	s := &Summary{
		Filter: f,
		Rows:   t.Len(),
	}
	if t != nil {
		s.City = t.City.Name
	}

	log := logging.Component("stats").With("city", s.City, "rows", s.Rows)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return runSection(gctx, log, "times", &s.Times, func() (*TimeStats, error) {
			return Times(t, f)
		})
	})
	g.Go(func() error {
		return runSection(gctx, log, "stations", &s.Stations, func() (*StationStats, error) {
			return Stations(t)
		})
	})
	g.Go(func() error {
		return runSection(gctx, log, "durations", &s.Durations, func() (*DurationStats, error) {
			return Durations(t, opts)
		})
	})
	g.Go(func() error {
		var city trips.City
		if t != nil {
			city = t.City
		}
		return runSection(gctx, log, "users", &s.Users, func() (*UserStats, error) {
			return Users(t, city)
		})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return s, nil
}

// Empty reports whether every section came back empty.
func (s *Summary) Empty() bool {
	return s.Times.Empty && s.Stations.Empty && s.Durations.Empty && s.Users.Empty
}

func runSection[T any](ctx context.Context, log *slog.Logger, name string, sec *Section[T], fn func() (T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	res, err := fn()
	sec.Elapsed = time.Since(start)

	switch {
	case err == nil:
		sec.Result = res
	case errors.IsEmptyResult(err):
		sec.Empty = true
		sec.Err = err
	default:
		return errors.Wrapf(err, "%s statistics", name)
	}

	log.Debug("section computed", "section", name, "empty", sec.Empty, "elapsed", sec.Elapsed)
	return nil
}
