package loader

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/source"
	testutil "github.com/xtxerr/bikeshare/internal/testing"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// newTestLoader writes the sample trips for all three cities into a temp dir.
func newTestLoader(t *testing.T, opts Options) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()

	var cities []trips.City
	for _, c := range trips.DefaultCities() {
		testutil.WriteCityCSV(t, dir, c.Source, c.Demographics, testutil.SampleTrips())
		c.Source = filepath.Join(dir, c.Source)
		cities = append(cities, c)
	}
	return New(trips.NewRegistry(cities), opts), dir
}

func TestLoad(t *testing.T) {
	l, _ := newTestLoader(t, DefaultOptions())

	table, err := l.Load(context.Background(), "Chicago")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if table.City.Name != constants.CityChicago {
		t.Errorf("expected chicago, got %q", table.City.Name)
	}
	if table.Len() != len(testutil.SampleTrips()) {
		t.Fatalf("expected %d rows, got %d", len(testutil.SampleTrips()), table.Len())
	}

	first := table.Records[0]
	if first.Month != 1 || first.DayOfWeek != "Monday" || first.Hour != 8 {
		t.Errorf("unexpected derived fields: month=%d day=%s hour=%d",
			first.Month, first.DayOfWeek, first.Hour)
	}
	if first.Route != "Canal St -> Clark St" {
		t.Errorf("unexpected route %q", first.Route)
	}
	if first.BirthYear == nil || *first.BirthYear != 1985 {
		t.Errorf("expected birth year 1985, got %v", first.BirthYear)
	}
	if first.EndTime.IsZero() {
		t.Error("expected end time to be parsed")
	}

	// third sample row has no demographics
	if table.Records[2].BirthYear != nil || table.Records[2].Gender != "" {
		t.Error("empty demographic cells should stay missing")
	}
}

func TestLoadWithoutDemographics(t *testing.T) {
	l, dir := newTestLoader(t, DefaultOptions())

	// Washington's file carries demographic columns here, but the city does not.
	testutil.WriteCityCSV(t, dir, "washington.csv", true, testutil.SampleTrips())

	table, err := l.Load(context.Background(), "washington")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i, r := range table.Records {
		if r.Gender != "" || r.BirthYear != nil {
			t.Fatalf("row %d: demographics read for washington", i)
		}
	}
}

func TestLoadUnknownCity(t *testing.T) {
	l, _ := newTestLoader(t, DefaultOptions())

	_, err := l.Load(context.Background(), "boston")
	if !errors.IsUnknownCity(err) {
		t.Errorf("expected ErrUnknownCity, got %v", err)
	}
}

func TestLoadDataSourceErrors(t *testing.T) {
	dir := t.TempDir()
	noStart := testutil.WriteCSV(t, dir, "chicago.csv",
		[]string{"End Station", "Start Station", "Trip Duration", "User Type"},
		[][]string{{"A", "B", "10", "Customer"}})
	noDemo := testutil.WriteCityCSV(t, dir, "nyc.csv", false, testutil.SampleTrips())

	tests := []struct {
		name string
		city trips.City
	}{
		{"missing file", trips.City{Name: "chicago", Source: filepath.Join(dir, "absent.csv")}},
		{"missing required column", trips.City{Name: "chicago", Source: noStart}},
		{"missing demographic column", trips.City{Name: "new york city", Source: noDemo, Demographics: true}},
	}

	l := New(nil, DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := l.LoadCity(context.Background(), tt.city)
			if !errors.Is(err, errors.ErrDataSource) {
				t.Errorf("expected ErrDataSource, got %v", err)
			}
		})
	}
}

func TestMalformedRecordPolicy(t *testing.T) {
	sample := testutil.SampleTrips()
	sample[3].Start = "not a time"
	sample[5].Duration = -1

	dir := t.TempDir()
	path := testutil.WriteCityCSV(t, dir, "chicago.csv", true, sample)
	city := trips.City{Name: "chicago", Source: path, Demographics: true}

	t.Run("fail", func(t *testing.T) {
		_, _, err := New(nil, DefaultOptions()).LoadCity(context.Background(), city)
		if !errors.Is(err, errors.ErrMalformedRecord) {
			t.Fatalf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("skip", func(t *testing.T) {
		opts := DefaultOptions()
		opts.MalformedPolicy = constants.PolicySkip
		table, report, err := New(nil, opts).LoadCity(context.Background(), city)
		if err != nil {
			t.Fatalf("LoadCity: %v", err)
		}
		if report.Skipped != 2 {
			t.Errorf("expected 2 skipped rows, got %d", report.Skipped)
		}
		if table.Len() != len(sample)-2 {
			t.Errorf("expected %d rows, got %d", len(sample)-2, table.Len())
		}
	})
}

func TestLoadIsDeterministic(t *testing.T) {
	l, _ := newTestLoader(t, DefaultOptions())
	ctx := context.Background()

	a, err := l.Load(ctx, "new york city")
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	b, err := l.Load(ctx, "new york city")
	if err != nil {
		t.Fatalf("second load: %v", err)
	}

	if a.Len() != b.Len() {
		t.Fatalf("row counts differ: %d vs %d", a.Len(), b.Len())
	}
	for i := range a.Records {
		ra, rb := a.Records[i], b.Records[i]
		if ra.Month != rb.Month || ra.DayOfWeek != rb.DayOfWeek || ra.Hour != rb.Hour || ra.Route != rb.Route {
			t.Errorf("row %d derived fields differ", i)
		}
	}
	if &a.Records[0] == &b.Records[0] {
		t.Error("each load should return a fresh table")
	}
}

func TestLoadParquetSource(t *testing.T) {
	l, dir := newTestLoader(t, DefaultOptions())
	csvTable, err := l.Load(context.Background(), "chicago")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	path := filepath.Join(dir, "chicago.parquet")
	if _, err := source.WriteParquet(path, csvTable, "snappy"); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	city := csvTable.City
	city.Source = path
	pqTable, _, err := New(nil, DefaultOptions()).LoadCity(context.Background(), city)
	if err != nil {
		t.Fatalf("LoadCity parquet: %v", err)
	}
	if pqTable.Len() != csvTable.Len() {
		t.Fatalf("expected %d rows, got %d", csvTable.Len(), pqTable.Len())
	}
	for i := range csvTable.Records {
		if !pqTable.Records[i].StartTime.Equal(csvTable.Records[i].StartTime) {
			t.Errorf("row %d start time differs", i)
		}
		if pqTable.Records[i].Route != csvTable.Records[i].Route {
			t.Errorf("row %d route differs", i)
		}
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		ok   bool
		hour int
	}{
		{"2017-01-01 09:07:57", true, 9},
		{"2017-01-01T23:07:57", true, 23},
		{"2017-01-01T09:07:57Z", true, 9},
		{"2017-06-30 23:59", true, 23},
		{"6/30/2017 17:45:01", true, 17},
		{"", false, 0},
		{"yesterday", false, 0},
	}

	for _, tt := range tests {
		got, ok := ParseTime(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseTime(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.Hour() != tt.hour {
			t.Errorf("ParseTime(%q) hour = %d, want %d", tt.in, got.Hour(), tt.hour)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1992", 1992, false},
		{"1992.0", 1992, false},
		{"1992.5", 0, true},
		{"nineteen", 0, true},
	}
	for _, tt := range tests {
		got, err := parseYear(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseYear(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseYear(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoadUnknownPolicy(t *testing.T) {
	l := New(nil, Options{MalformedPolicy: "ignore"})

	_, _, err := l.LoadCity(context.Background(), testutil.City("chicago", true))
	if !errors.Is(err, errors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
