package trips

import (
	"testing"
	"time"

	"github.com/xtxerr/bikeshare/internal/errors"
)

func TestRecordDerive(t *testing.T) {
	r := Record{
		StartTime:    time.Date(2017, time.June, 23, 15, 9, 32, 0, time.UTC),
		StartStation: "Wood St & Hubbard St",
		EndStation:   "Damen Ave & Chicago Ave",
	}
	r.Derive()

	if r.Month != 6 {
		t.Errorf("expected month=6, got %d", r.Month)
	}
	if r.DayOfWeek != "Friday" {
		t.Errorf("expected Friday, got %s", r.DayOfWeek)
	}
	if r.Hour != 15 {
		t.Errorf("expected hour=15, got %d", r.Hour)
	}
	if r.Route != "Wood St & Hubbard St -> Damen Ave & Chicago Ave" {
		t.Errorf("unexpected route %q", r.Route)
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name         string
		input        string
		wantErr      bool
		demographics bool
	}{
		{"lower", "chicago", false, true},
		{"upper", "WASHINGTON", false, false},
		{"extra spaces", "  New   York City ", false, true},
		{"unknown", "boston", true, false},
		{"empty", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := reg.Lookup(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Lookup(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !errors.IsUnknownCity(err) {
					t.Errorf("expected ErrUnknownCity, got %v", err)
				}
				return
			}
			if c.Demographics != tt.demographics {
				t.Errorf("Demographics = %v, want %v", c.Demographics, tt.demographics)
			}
		})
	}
}

func TestRegistryNames(t *testing.T) {
	names := DefaultRegistry().Names()
	want := []string{"chicago", "new york city", "washington"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestFilterWildcards(t *testing.T) {
	var f Filter
	if !f.AnyMonth() || !f.AnyDay() {
		t.Error("zero filter should be all wildcards")
	}
	f = Filter{Month: 3, Day: "monday"}
	if f.AnyMonth() || f.AnyDay() {
		t.Error("set filter should not be wildcards")
	}
}

func TestTableLen(t *testing.T) {
	var nilTable *Table
	if nilTable.Len() != 0 || !nilTable.IsEmpty() {
		t.Error("nil table should be empty")
	}
	tbl := &Table{Records: make([]Record, 3)}
	if tbl.Len() != 3 || tbl.IsEmpty() {
		t.Error("expected 3 rows")
	}
}
