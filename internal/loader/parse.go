package loader

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/source"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// timeLayouts are tried in order for Start Time and End Time.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
}

// ParseTime parses a source timestamp. Timestamps without a zone are taken
// as wall-clock times in UTC so derived hours match the source text.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// columns holds the frame positions of the fields the loader reads.
// Optional positions are -1 when the column is absent or not read.
type columns struct {
	start, end, duration int
	from, to, userType   int
	gender, birthYear    int
}

func resolveColumns(frame *source.Frame, city trips.City) (columns, error) {
	want := constants.RequiredColumns
	if city.Demographics {
		want = append(append([]string{}, want...), constants.DemographicColumns...)
	}
	if missing := frame.Missing(want); len(missing) > 0 {
		return columns{}, errors.NewDataSource(frame.Path,
			"missing columns "+strings.Join(missing, ", "), nil)
	}

	pos := func(c string) int {
		if i, ok := frame.Index(c); ok {
			return i
		}
		return -1
	}

	cols := columns{
		start:     pos(constants.ColStartTime),
		end:       pos(constants.ColEndTime),
		duration:  pos(constants.ColTripDuration),
		from:      pos(constants.ColStartStation),
		to:        pos(constants.ColEndStation),
		userType:  pos(constants.ColUserType),
		gender:    -1,
		birthYear: -1,
	}
	// Demographic columns of other cities are never read, even when present.
	if city.Demographics {
		cols.gender = pos(constants.ColGender)
		cols.birthYear = pos(constants.ColBirthYear)
	}
	return cols, nil
}

// parseRecord parses one data row. rowNum is 1-based.
func parseRecord(frame *source.Frame, row []string, cols columns, rowNum int) (trips.Record, error) {
	raw := frame.Cell(row, cols.start)
	start, ok := ParseTime(raw)
	if !ok {
		return trips.Record{}, errors.NewMalformedRecord(rowNum, constants.ColStartTime, raw)
	}

	raw = frame.Cell(row, cols.duration)
	duration, err := strconv.ParseFloat(raw, 64)
	if err != nil || duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return trips.Record{}, errors.NewMalformedRecord(rowNum, constants.ColTripDuration, raw)
	}

	rec := trips.Record{
		StartTime:    start,
		StartStation: frame.Cell(row, cols.from),
		EndStation:   frame.Cell(row, cols.to),
		TripDuration: duration,
		UserType:     frame.Cell(row, cols.userType),
	}

	// End Time is informational; an unparseable value is left zero.
	if end, ok := ParseTime(frame.Cell(row, cols.end)); ok {
		rec.EndTime = end
	}

	if cols.gender >= 0 {
		rec.Gender = frame.Cell(row, cols.gender)
	}
	if cols.birthYear >= 0 {
		raw = frame.Cell(row, cols.birthYear)
		if raw != "" {
			year, err := parseYear(raw)
			if err != nil {
				return trips.Record{}, errors.NewMalformedRecord(rowNum, constants.ColBirthYear, raw)
			}
			rec.BirthYear = &year
		}
	}

	rec.Derive()
	return rec, nil
}

// parseYear accepts "1992" and the float form "1992.0" found in the datasets.
func parseYear(s string) (int, error) {
	if y, err := strconv.Atoi(s); err == nil {
		return y, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, strconv.ErrSyntax
	}
	return int(f), nil
}
