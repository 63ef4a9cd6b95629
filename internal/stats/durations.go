package stats

import (
	"math"

	"github.com/DataDog/sketches-go/ddsketch"
	defaults "github.com/xtxerr/bikeshare/config"
	"github.com/xtxerr/bikeshare/internal/config"
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// Options configures the aggregators.
type Options struct {
	// Percentiles enables approximate duration quantiles.
	Percentiles bool

	// Accuracy is the relative accuracy of the quantiles (0.01 = 1% error).
	Accuracy float64
}

// DefaultOptions returns the default aggregator options.
func DefaultOptions() Options {
	return Options{
		Percentiles: defaults.DefaultPercentilesEnabled,
		Accuracy:    defaults.DefaultPercentileAccuracy,
	}
}

// OptionsFromConfig returns the aggregator options of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Percentiles: cfg.Stats.Percentiles.Enabled,
		Accuracy:    cfg.Stats.Percentiles.Accuracy,
	}
}

// DurationStats holds trip duration statistics in seconds.
type DurationStats struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`

	// Approximate quantiles, nil when disabled.
	P50 *float64 `json:"p50,omitempty"`
	P90 *float64 `json:"p90,omitempty"`
	P99 *float64 `json:"p99,omitempty"`
}

// HasPercentiles returns true if quantiles were computed.
func (d *DurationStats) HasPercentiles() bool {
	return d.P50 != nil && d.P90 != nil && d.P99 != nil
}

// Durations computes total, mean and range of trip durations, plus
// approximate quantiles when opts.Percentiles is set.
func Durations(t *trips.Table, opts Options) (*DurationStats, error) {
	if t.IsEmpty() {
		return nil, errors.NewEmptyResult("trip duration statistics")
	}

	agg, err := newDurationAggregate(opts)
	if err != nil {
		return nil, err
	}
	for i := range t.Records {
		if err := agg.add(t.Records[i].TripDuration); err != nil {
			return nil, errors.Wrapf(err, "row %d", i+1)
		}
	}
	return agg.result(), nil
}

// TotalDuration returns the summed trip duration of t, 0 when t is empty.
func TotalDuration(t *trips.Table) float64 {
	var sum float64
	if t == nil {
		return sum
	}
	for i := range t.Records {
		sum += t.Records[i].TripDuration
	}
	return sum
}

// durationAggregate keeps running statistics over trip durations.
type durationAggregate struct {
	count int
	sum   float64
	min   float64
	max   float64

	// nil if percentiles are disabled
	sketch *ddsketch.DDSketch
}

func newDurationAggregate(opts Options) (*durationAggregate, error) {
	agg := &durationAggregate{
		min: math.MaxFloat64,
		max: -math.MaxFloat64,
	}

	if opts.Percentiles {
		accuracy := opts.Accuracy
		if accuracy <= 0 || accuracy >= 1 {
			accuracy = defaults.DefaultPercentileAccuracy
		}
		sketch, err := ddsketch.NewDefaultDDSketch(accuracy)
		if err != nil {
			return nil, errors.Wrap(err, "create duration sketch")
		}
		agg.sketch = sketch
	}

	return agg, nil
}

func (a *durationAggregate) add(value float64) error {
	a.count++
	a.sum += value

	if value < a.min {
		a.min = value
	}
	if value > a.max {
		a.max = value
	}

	if a.sketch != nil {
		return a.sketch.Add(value)
	}
	return nil
}

func (a *durationAggregate) result() *DurationStats {
	d := &DurationStats{
		Count: a.count,
		Total: a.sum,
	}
	if a.count == 0 {
		return d
	}

	d.Mean = a.sum / float64(a.count)
	d.Min = a.min
	d.Max = a.max

	if a.sketch != nil {
		p50, err50 := a.sketch.GetValueAtQuantile(0.50)
		p90, err90 := a.sketch.GetValueAtQuantile(0.90)
		p99, err99 := a.sketch.GetValueAtQuantile(0.99)
		if err50 == nil && err90 == nil && err99 == nil {
			d.P50, d.P90, d.P99 = &p50, &p90, &p99
		}
	}
	return d
}
