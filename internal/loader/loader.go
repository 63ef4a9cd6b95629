// Package loader is the record store loader: it resolves a city, reads its
// source through one of the source engines, and returns a table of parsed
// records with derived fields.
package loader

import (
	"context"
	"log/slog"
	"time"

	"github.com/xtxerr/bikeshare/internal/config"
	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/logging"
	"github.com/xtxerr/bikeshare/internal/source"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// Options configures a Loader.
type Options struct {
	// Engine is one of constants.ValidEngines.
	Engine string

	// MalformedPolicy is constants.PolicyFail or constants.PolicySkip.
	MalformedPolicy string

	// Source is passed to the source readers.
	Source source.Options
}

// DefaultOptions returns auto engine detection with the fail policy.
func DefaultOptions() Options {
	return Options{
		Engine:          constants.EngineAuto,
		MalformedPolicy: constants.PolicyFail,
	}
}

// Loader reads city tables. It holds no per-load state; every call reads
// the source again.
type Loader struct {
	registry *trips.Registry
	opts     Options
	log      *slog.Logger
}

// Report describes one load.
type Report struct {
	City    string
	Source  string
	Rows    int
	Skipped int
	Elapsed time.Duration
}

// New creates a loader over a city registry.
func New(registry *trips.Registry, opts Options) *Loader {
	if registry == nil {
		registry = trips.DefaultRegistry()
	}
	if opts.Engine == "" {
		opts.Engine = constants.EngineAuto
	}
	if opts.MalformedPolicy == "" {
		opts.MalformedPolicy = constants.PolicyFail
	}
	return &Loader{
		registry: registry,
		opts:     opts,
		log:      logging.Component("loader"),
	}
}

// FromConfig creates a loader from application configuration.
func FromConfig(cfg *config.Config) *Loader {
	return New(cfg.Registry(), Options{
		Engine:          cfg.Loader.Engine,
		MalformedPolicy: cfg.Loader.MalformedPolicy,
		Source: source.Options{
			DuckDBMemoryLimit: cfg.Loader.DuckDBMemoryLimit,
		},
	})
}

// Registry returns the loader's city registry.
func (l *Loader) Registry() *trips.Registry {
	return l.registry
}

// Load resolves city and returns its table.
func (l *Loader) Load(ctx context.Context, city string) (*trips.Table, error) {
	t, _, err := l.LoadWithReport(ctx, city)
	return t, err
}

// LoadWithReport is Load that also reports row and skip counts.
func (l *Loader) LoadWithReport(ctx context.Context, city string) (*trips.Table, *Report, error) {
	c, err := l.registry.Lookup(city)
	if err != nil {
		return nil, nil, err
	}
	return l.LoadCity(ctx, c)
}

// LoadCity reads the table of an already resolved city.
func (l *Loader) LoadCity(ctx context.Context, city trips.City) (*trips.Table, *Report, error) {
	start := time.Now()

	if !constants.IsOneOf(l.opts.MalformedPolicy, constants.ValidPolicies) {
		return nil, nil, errors.NewInvalidInput("malformed policy", l.opts.MalformedPolicy, constants.ValidPolicies)
	}

	reader, err := source.ReaderFor(l.opts.Engine, city.Source, l.opts.Source)
	if err != nil {
		return nil, nil, err
	}

	frame, err := reader.Read(ctx, city.Source)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "load %s", city.Name)
	}

	cols, err := resolveColumns(frame, city)
	if err != nil {
		return nil, nil, err
	}

	skip := l.opts.MalformedPolicy == constants.PolicySkip
	table := &trips.Table{
		City:    city,
		Records: make([]trips.Record, 0, frame.Len()),
	}
	report := &Report{City: city.Name, Source: city.Source}

	for i, row := range frame.Rows {
		rec, err := parseRecord(frame, row, cols, i+1)
		if err != nil {
			if skip && errors.Is(err, errors.ErrMalformedRecord) {
				report.Skipped++
				l.log.Debug("skipping malformed row", "city", city.Name, "error", err)
				continue
			}
			return nil, nil, errors.Wrapf(err, "load %s", city.Name)
		}
		table.Records = append(table.Records, rec)
	}

	report.Rows = len(table.Records)
	report.Elapsed = time.Since(start)

	if report.Skipped > 0 {
		l.log.Warn("dropped malformed rows",
			"city", city.Name, "skipped", report.Skipped, "kept", report.Rows)
	}
	l.log.Info("city loaded",
		"city", city.Name,
		"source", city.Source,
		"rows", report.Rows,
		"elapsed", report.Elapsed)

	return table, report, nil
}
