package stats

import (
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// UserStats holds user type counts and, for cities that publish them,
// gender counts and birth year statistics.
type UserStats struct {
	UserTypes []Frequency[string] `json:"user_types"`

	// nil for cities without demographic data
	Genders    []Frequency[string] `json:"genders,omitempty"`
	BirthYears *BirthYearStats     `json:"birth_years,omitempty"`
}

// BirthYearStats summarizes the birth years present in a table.
type BirthYearStats struct {
	Earliest        int `json:"earliest"`
	MostRecent      int `json:"most_recent"`
	MostCommon      int `json:"most_common"`
	MostCommonCount int `json:"most_common_count"`
}

// Users counts user types of t. When city has demographics it also counts
// genders and summarizes birth years; otherwise those fields stay nil even if
// the rows carry values. Empty user types and genders are not counted.
//
// For a demographics city with no birth year in any row, Users returns
// ErrEmptyResult and no stats at all, so the user type and gender counts
// are dropped with the birth years and the users section reports as empty.
// Callers wanting the counts alone can pass a city with Demographics unset.
func Users(t *trips.Table, city trips.City) (*UserStats, error) {
	if t.IsEmpty() {
		return nil, errors.NewEmptyResult("user statistics")
	}

	types := newCounter[string]()
	for i := range t.Records {
		if v := t.Records[i].UserType; v != "" {
			types.add(v)
		}
	}

	s := &UserStats{UserTypes: types.ranked()}
	if !city.Demographics {
		return s, nil
	}

	genders := newCounter[string]()
	years := newCounter[int]()
	for i := range t.Records {
		r := &t.Records[i]
		if r.Gender != "" {
			genders.add(r.Gender)
		}
		if r.BirthYear != nil {
			years.add(*r.BirthYear)
		}
	}

	if years.empty() {
		return nil, errors.NewEmptyResult("birth year statistics")
	}

	s.Genders = genders.ranked()
	s.BirthYears = birthYears(years)
	return s, nil
}

func birthYears(years *counter[int]) *BirthYearStats {
	mode, _ := years.mode()
	b := &BirthYearStats{
		Earliest:        mode.Value,
		MostRecent:      mode.Value,
		MostCommon:      mode.Value,
		MostCommonCount: mode.Count,
	}
	for _, y := range years.order {
		b.Earliest = min(b.Earliest, y)
		b.MostRecent = max(b.MostRecent, y)
	}
	return b
}
