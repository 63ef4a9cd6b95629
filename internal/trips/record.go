// Package trips holds the trip data model shared by the loader, the filter
// engine, the aggregators and the paginator.
package trips

import "time"

// Record is one trip. Derived fields are set by Derive and nowhere else.
type Record struct {
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitempty"`
	StartStation string    `json:"start_station"`
	EndStation   string    `json:"end_station"`
	TripDuration float64   `json:"trip_duration"`
	UserType     string    `json:"user_type,omitempty"`

	// Only populated for cities with demographic data.
	Gender    string `json:"gender,omitempty"`
	BirthYear *int   `json:"birth_year,omitempty"`

	Month     int    `json:"month"`
	DayOfWeek string `json:"day_of_week"`
	Hour      int    `json:"hour"`
	Route     string `json:"route"`
}

// RouteSeparator joins start and end station in Record.Route.
const RouteSeparator = " -> "

// Derive fills the derived fields from StartTime and the station names.
func (r *Record) Derive() {
	r.Month = int(r.StartTime.Month())
	r.DayOfWeek = r.StartTime.Weekday().String()
	r.Hour = r.StartTime.Hour()
	r.Route = r.StartStation + RouteSeparator + r.EndStation
}

// Table is a city's records together with the city they came from.
type Table struct {
	City    City
	Records []Record
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// Filter is a month/day constraint pair. Zero values mean no constraint.
type Filter struct {
	// Month is 1-6, or 0 for any month.
	Month int `json:"month,omitempty"`

	// Day is a weekday name compared case-insensitively, or "" for any day.
	Day string `json:"day,omitempty"`
}

// AnyMonth reports whether the month constraint is the wildcard.
func (f Filter) AnyMonth() bool { return f.Month == 0 }

// AnyDay reports whether the day constraint is the wildcard.
func (f Filter) AnyDay() bool { return f.Day == "" }
