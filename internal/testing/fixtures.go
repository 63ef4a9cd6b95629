package testing

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// FixtureTimeLayout is the timestamp format used in the city files.
const FixtureTimeLayout = "2006-01-02 15:04:05"

// Trip is a compact fixture row. Empty strings become empty cells.
type Trip struct {
	Start     string
	Duration  float64
	From      string
	To        string
	UserType  string
	Gender    string
	BirthYear string
}

// Header returns the city file header, with an unnamed index column first
// like the published datasets.
func Header(demographics bool) []string {
	h := []string{"", constants.ColStartTime, constants.ColEndTime, constants.ColTripDuration,
		constants.ColStartStation, constants.ColEndStation, constants.ColUserType}
	if demographics {
		h = append(h, constants.ColGender, constants.ColBirthYear)
	}
	return h
}

// WriteCSV writes header and rows to dir/name and returns the path.
func WriteCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return path
}

// WriteCityCSV writes trips in the city file layout and returns the path.
func WriteCityCSV(t *testing.T, dir, name string, demographics bool, trips []Trip) string {
	t.Helper()

	rows := make([][]string, len(trips))
	for i, tr := range trips {
		end := ""
		if start, err := time.Parse(FixtureTimeLayout, tr.Start); err == nil {
			end = start.Add(time.Duration(tr.Duration * float64(time.Second))).Format(FixtureTimeLayout)
		}
		row := []string{
			strconv.Itoa(i), tr.Start, end, strconv.FormatFloat(tr.Duration, 'f', -1, 64),
			tr.From, tr.To, tr.UserType,
		}
		if demographics {
			row = append(row, tr.Gender, tr.BirthYear)
		}
		rows[i] = row
	}
	return WriteCSV(t, dir, name, Header(demographics), rows)
}

// SampleTrips returns a small week of trips touching every derived field.
func SampleTrips() []Trip {
	return []Trip{
		{"2017-01-02 08:05:00", 600, "Canal St", "Clark St", "Subscriber", "Male", "1985.0"},
		{"2017-01-02 08:40:00", 300, "Canal St", "Clark St", "Subscriber", "Female", "1990.0"},
		{"2017-02-07 17:15:00", 1200, "Lake Shore Dr", "Canal St", "Customer", "", ""},
		{"2017-03-11 12:00:00", 900, "Clark St", "Lake Shore Dr", "Customer", "Male", "1985.0"},
		{"2017-06-05 08:30:00", 450, "Canal St", "Wells St", "Subscriber", "Female", "1972.0"},
		{"2017-06-18 21:45:00", 1800, "Wells St", "Canal St", "", "", ""},
		{"2017-06-19 08:10:00", 240, "Canal St", "Clark St", "Subscriber", "Male", "1999.0"},
	}
}

// City returns a descriptor for tests.
func City(name string, demographics bool) trips.City {
	return trips.City{Name: name, Source: name + ".csv", Demographics: demographics}
}

// Record builds a derived record. start uses FixtureTimeLayout.
func Record(start, from, to string, duration float64) trips.Record {
	ts, err := time.Parse(FixtureTimeLayout, start)
	if err != nil {
		panic(err)
	}
	r := trips.Record{
		StartTime:    ts,
		StartStation: from,
		EndStation:   to,
		TripDuration: duration,
		UserType:     "Subscriber",
	}
	r.Derive()
	return r
}

// Table builds a table for city over records.
func Table(city trips.City, records ...trips.Record) *trips.Table {
	return &trips.Table{City: city, Records: records}
}

// AtHours builds one record per hour on 2017-01-02 (a Monday).
func AtHours(hours ...int) []trips.Record {
	out := make([]trips.Record, len(hours))
	for i, h := range hours {
		ts := time.Date(2017, time.January, 2, h, 0, 0, 0, time.UTC).Format(FixtureTimeLayout)
		out[i] = Record(ts, "A", "B", 60)
	}
	return out
}

// WithDurations builds one record per duration.
func WithDurations(durations ...float64) []trips.Record {
	out := make([]trips.Record, len(durations))
	for i, d := range durations {
		out[i] = Record("2017-01-02 08:00:00", "A", "B", d)
	}
	return out
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
