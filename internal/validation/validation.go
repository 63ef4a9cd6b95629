// Package validation parses the interactive answers of the bikeshare CLI.
// Every parser either returns a canonical value or an error wrapping
// errors.ErrInvalidInput that lists the accepted answers.
package validation

import (
	"strings"

	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// normalize lowercases s and collapses runs of whitespace.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// =============================================================================
// City
// =============================================================================

// ParseCity resolves s against reg. An unknown name is reported as invalid
// input so the caller can ask again.
func ParseCity(reg *trips.Registry, s string) (trips.City, error) {
	city, err := reg.Lookup(s)
	if err != nil {
		if errors.IsUnknownCity(err) {
			return trips.City{}, errors.NewInvalidInput("city", s, reg.Names())
		}
		return trips.City{}, err
	}
	return city, nil
}

// =============================================================================
// Month and Day
// =============================================================================

// ParseMonth returns 1-6 for january..june and 0 for "all".
func ParseMonth(s string) (int, error) {
	v := normalize(s)
	if v == constants.All {
		return 0, nil
	}
	for i, m := range constants.Months {
		if v == m {
			return i + 1, nil
		}
	}
	return 0, errors.NewInvalidInput("month", s, MonthChoices())
}

// ParseDay returns the canonical weekday name, or "" for "all".
func ParseDay(s string) (string, error) {
	v := normalize(s)
	if v == constants.All {
		return "", nil
	}
	for _, d := range constants.Weekdays {
		if v == strings.ToLower(d) {
			return d, nil
		}
	}
	return "", errors.NewInvalidInput("day", s, DayChoices())
}

// ParseFilter parses a month and a day answer into a filter.
func ParseFilter(month, day string) (trips.Filter, error) {
	m, err := ParseMonth(month)
	if err != nil {
		return trips.Filter{}, err
	}
	d, err := ParseDay(day)
	if err != nil {
		return trips.Filter{}, err
	}
	return trips.Filter{Month: m, Day: d}, nil
}

// MonthChoices returns the accepted month answers.
func MonthChoices() []string {
	return append(append([]string{}, constants.Months...), constants.All)
}

// DayChoices returns the accepted day answers.
func DayChoices() []string {
	out := make([]string, 0, len(constants.Weekdays)+1)
	for _, d := range constants.Weekdays {
		out = append(out, strings.ToLower(d))
	}
	return append(out, constants.All)
}

// =============================================================================
// Yes / No
// =============================================================================

var yesNoChoices = []string{"yes", "no"}

// ParseYesNo accepts yes/y and no/n in any case.
func ParseYesNo(s string) (bool, error) {
	switch normalize(s) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return false, errors.NewInvalidInput("answer", s, yesNoChoices)
}
