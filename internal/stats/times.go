package stats

import (
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// TimeStats holds the most frequent times of travel.
//
// PopularMonth and PopularDay are only set when the filter left that
// dimension open; a constrained dimension has a single value by construction.
type TimeStats struct {
	PopularMonth *int `json:"popular_month,omitempty"`
	MonthCount   int  `json:"month_count,omitempty"`

	PopularDay *string `json:"popular_day,omitempty"`
	DayCount   int     `json:"day_count,omitempty"`

	PopularHour int `json:"popular_hour"`
	HourCount   int `json:"hour_count"`
}

// Times computes the most common month, weekday and start hour of t.
func Times(t *trips.Table, f trips.Filter) (*TimeStats, error) {
	if t.IsEmpty() {
		return nil, errors.NewEmptyResult("time statistics")
	}

	months := newCounter[int]()
	days := newCounter[string]()
	hours := newCounter[int]()
	for i := range t.Records {
		r := &t.Records[i]
		months.add(r.Month)
		days.add(r.DayOfWeek)
		hours.add(r.Hour)
	}

	s := &TimeStats{}
	if f.AnyMonth() {
		m, _ := months.mode()
		s.PopularMonth = &m.Value
		s.MonthCount = m.Count
	}
	if f.AnyDay() {
		d, _ := days.mode()
		s.PopularDay = &d.Value
		s.DayCount = d.Count
	}
	h, _ := hours.mode()
	s.PopularHour = h.Value
	s.HourCount = h.Count

	return s, nil
}
