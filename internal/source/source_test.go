package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/errors"
	testutil "github.com/xtxerr/bikeshare/internal/testing"
)

func TestCSVReader(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCityCSV(t, dir, "chicago.csv", true, testutil.SampleTrips())

	frame, err := (&CSVReader{}).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if frame.Len() != len(testutil.SampleTrips()) {
		t.Errorf("expected %d rows, got %d", len(testutil.SampleTrips()), frame.Len())
	}
	if missing := frame.Missing(constants.RequiredColumns); len(missing) != 0 {
		t.Errorf("unexpected missing columns: %v", missing)
	}

	idx, _ := frame.Index(constants.ColStartStation)
	if got := frame.Cell(frame.Rows[2], idx); got != "Lake Shore Dr" {
		t.Errorf("expected Lake Shore Dr, got %q", got)
	}
}

func TestCSVReaderBOMAndShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	body := "\xef\xbb\xbfStart Time,Start Station\n2017-01-01 00:00:01\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	frame, err := (&CSVReader{}).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !frame.Has(constants.ColStartTime) {
		t.Error("BOM should be stripped from the first header")
	}
	idx, _ := frame.Index(constants.ColStartStation)
	if got := frame.Cell(frame.Rows[0], idx); got != "" {
		t.Errorf("short row should read as empty, got %q", got)
	}
}

func TestCSVReaderErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.csv")},
		{"empty file", empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&CSVReader{}).Read(context.Background(), tt.path)
			if !errors.Is(err, errors.ErrDataSource) {
				t.Errorf("expected ErrDataSource, got %v", err)
			}
		})
	}
}

func TestCSVReaderCancelled(t *testing.T) {
	path := testutil.WriteCityCSV(t, t.TempDir(), "c.csv", false, testutil.SampleTrips())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (&CSVReader{}).Read(ctx, path); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestReaderFor(t *testing.T) {
	tests := []struct {
		engine string
		path   string
		want   string
	}{
		{constants.EngineAuto, "chicago.csv", "*source.CSVReader"},
		{constants.EngineAuto, "chicago.PARQUET", "*source.ParquetReader"},
		{constants.EngineAuto, "chicago", "*source.CSVReader"},
		{constants.EngineDuckDB, "chicago.csv", "*source.DuckDBReader"},
		{constants.EngineParquet, "chicago.csv", "*source.ParquetReader"},
	}

	for _, tt := range tests {
		r, err := ReaderFor(tt.engine, tt.path, Options{})
		if err != nil {
			t.Fatalf("ReaderFor(%s, %s): %v", tt.engine, tt.path, err)
		}
		if got := typeName(r); got != tt.want {
			t.Errorf("ReaderFor(%s, %s) = %s, want %s", tt.engine, tt.path, got, tt.want)
		}
	}

	if _, err := NewReader("sqlite", Options{}); err == nil {
		t.Error("expected error for unknown engine")
	}
}

func typeName(r Reader) string {
	switch r.(type) {
	case *CSVReader:
		return "*source.CSVReader"
	case *ParquetReader:
		return "*source.ParquetReader"
	case *DuckDBReader:
		return "*source.DuckDBReader"
	}
	return "unknown"
}

func TestParquetRoundTrip(t *testing.T) {
	city := testutil.City("chicago", true)
	rec := testutil.Record("2017-06-23 15:09:32", "Wood St", "Damen Ave", 321.5)
	rec.Gender = "Female"
	rec.BirthYear = testutil.IntPtr(1992)
	table := testutil.Table(city, rec, testutil.Record("2017-01-01 00:07:57", "Canal St", "Clark St", 60))

	path := filepath.Join(t.TempDir(), "out", "chicago.parquet")
	n, err := WriteParquet(path, table, "zstd")
	if err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows written, got %d", n)
	}

	frame, err := (&ParquetReader{}).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if frame.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", frame.Len())
	}

	want := map[string]string{
		constants.ColStartTime:    "2017-06-23 15:09:32",
		constants.ColTripDuration: "321.5",
		constants.ColStartStation: "Wood St",
		constants.ColGender:       "Female",
		constants.ColBirthYear:    "1992",
	}
	for col, v := range want {
		idx, ok := frame.Index(col)
		if !ok {
			t.Errorf("column %q missing", col)
			continue
		}
		if got := frame.Cell(frame.Rows[0], idx); got != v {
			t.Errorf("%s = %q, want %q", col, got, v)
		}
	}
}

func TestRecordToRowWithoutDemographics(t *testing.T) {
	rec := testutil.Record("2017-01-01 00:07:57", "A", "B", 60)
	rec.Gender = "Male"
	rec.BirthYear = testutil.IntPtr(1980)

	row := RecordToRow(&rec, false)
	if row.Gender != "" || row.BirthYear != "" {
		t.Errorf("demographics should not be written, got %q/%q", row.Gender, row.BirthYear)
	}
	if row.EndTime != "" {
		t.Errorf("zero end time should be empty, got %q", row.EndTime)
	}
}

func TestDuckDBReaderCSV(t *testing.T) {
	path := testutil.WriteCityCSV(t, t.TempDir(), "washington.csv", false, testutil.SampleTrips())

	frame, err := (&DuckDBReader{MemoryLimit: "256MB"}).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if frame.Len() != len(testutil.SampleTrips()) {
		t.Fatalf("expected %d rows, got %d", len(testutil.SampleTrips()), frame.Len())
	}

	idx, ok := frame.Index(constants.ColTripDuration)
	if !ok {
		t.Fatalf("missing %s in %v", constants.ColTripDuration, frame.Columns)
	}
	if got := frame.Cell(frame.Rows[0], idx); got != "600" {
		t.Errorf("durations should stay textual, got %q", got)
	}
}

func TestDuckDBReaderParquet(t *testing.T) {
	table := testutil.Table(testutil.City("washington", false),
		testutil.Record("2017-03-01 10:00:00", "A", "B", 90))
	path := filepath.Join(t.TempDir(), "w.parquet")
	if _, err := WriteParquet(path, table, "snappy"); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	frame, err := (&DuckDBReader{}).Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	idx, _ := frame.Index(constants.ColStartTime)
	if got := frame.Cell(frame.Rows[0], idx); !strings.HasPrefix(got, "2017-03-01 10:00:00") {
		t.Errorf("unexpected start time %q", got)
	}
}

func TestValidMemoryLimit(t *testing.T) {
	tests := []struct {
		limit string
		want  bool
	}{
		{"1GB", true},
		{"512MB", true},
		{"1.5GiB", true},
		{"256 mb", true},
		{"", false},
		{"lots", false},
		{"1GB'; DROP TABLE trips; --", false},
		{"1GB' ", false},
	}
	for _, tt := range tests {
		if got := ValidMemoryLimit(tt.limit); got != tt.want {
			t.Errorf("ValidMemoryLimit(%q) = %v, want %v", tt.limit, got, tt.want)
		}
	}
}

func TestDuckDBReaderRejectsMemoryLimit(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCityCSV(t, dir, "chicago.csv", true, testutil.SampleTrips())

	_, err := (&DuckDBReader{MemoryLimit: "1GB'; SELECT 1; --"}).Read(context.Background(), path)
	if !errors.IsValidation(err) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestFrameMissing(t *testing.T) {
	f := NewFrame("x", []string{" Start Time ", "User Type"})
	missing := f.Missing(constants.RequiredColumns)
	if len(missing) != 3 {
		t.Errorf("expected 3 missing columns, got %v", missing)
	}
}
