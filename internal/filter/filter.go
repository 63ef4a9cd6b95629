// Package filter narrows a table to the rows matching a month/day filter.
package filter

import (
	"strings"

	"github.com/xtxerr/bikeshare/internal/trips"
)

// Matches reports whether r satisfies both constraints of f.
func Matches(r *trips.Record, f trips.Filter) bool {
	if !f.AnyMonth() && r.Month != f.Month {
		return false
	}
	if !f.AnyDay() && !strings.EqualFold(r.DayOfWeek, strings.TrimSpace(f.Day)) {
		return false
	}
	return true
}

// Apply returns a new table holding the rows of t that match f.
// t is never modified; the result never shares its record slice with t.
func Apply(t *trips.Table, f trips.Filter) *trips.Table {
	out := &trips.Table{}
	if t == nil {
		return out
	}
	out.City = t.City

	if f.AnyMonth() && f.AnyDay() {
		out.Records = append(make([]trips.Record, 0, len(t.Records)), t.Records...)
		return out
	}

	out.Records = make([]trips.Record, 0)
	for i := range t.Records {
		if Matches(&t.Records[i], f) {
			out.Records = append(out.Records, t.Records[i])
		}
	}
	return out
}
