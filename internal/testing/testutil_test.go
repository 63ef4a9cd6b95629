package testing

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func TestGoroutineTestBasic(t *testing.T) {
	gt := NewGoroutineTest(t)
	defer gt.Wait()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		gt.Go(func() error {
			ran.Add(1)
			if i < 0 {
				return fmt.Errorf("unexpected negative index: %d", i)
			}
			return nil
		})
	}

	gt.Go(func() error {
		select {
		case <-gt.Context().Done():
			return gt.Context().Err()
		case <-time.After(10 * time.Millisecond):
			return nil
		}
	})
}

func TestAssertEqual(t *testing.T) {
	if err := AssertEqual(3, 3, "count"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := AssertEqual("a", "b", "name"); err == nil {
		t.Error("expected an error for differing values")
	}
}

func TestWriteCityCSV(t *testing.T) {
	dir := t.TempDir()
	path := WriteCityCSV(t, dir, "chicago.csv", true, SampleTrips())

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != len(SampleTrips())+1 {
		t.Fatalf("expected %d lines, got %d", len(SampleTrips())+1, len(rows))
	}
	if len(rows[0]) != len(Header(true)) {
		t.Errorf("expected %d columns, got %d", len(Header(true)), len(rows[0]))
	}
	if rows[1][2] != "2017-01-02 08:15:00" {
		t.Errorf("end time should be start plus duration, got %q", rows[1][2])
	}
}

func TestRecordBuilders(t *testing.T) {
	r := Record("2017-06-10 12:30:00", "A", "B", 90)
	if r.Month != 6 || r.DayOfWeek != "Saturday" || r.Hour != 12 || r.Route != "A -> B" {
		t.Errorf("record not derived: %+v", r)
	}

	hours := AtHours(0, 23)
	if hours[0].Hour != 0 || hours[1].Hour != 23 || hours[1].DayOfWeek != "Monday" {
		t.Errorf("unexpected records %+v", hours)
	}

	ds := WithDurations(1.5, 2)
	if ds[0].TripDuration != 1.5 || ds[1].TripDuration != 2 {
		t.Errorf("unexpected durations %+v", ds)
	}

	if table := Table(City("chicago", true), ds...); table.Len() != 2 || !table.City.Demographics {
		t.Errorf("unexpected table %+v", table)
	}
}
