package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/loader"
	"github.com/xtxerr/bikeshare/internal/paginate"
	"github.com/xtxerr/bikeshare/internal/source"
	"github.com/xtxerr/bikeshare/internal/stats"
	"github.com/xtxerr/bikeshare/internal/trips"
)

const rule = "----------------------------------------"

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReport(w io.Writer, r *loader.Report) {
	if r == nil {
		return
	}
	fmt.Fprintf(w, "Loaded %d trips for %s", r.Rows, r.City)
	if r.Skipped > 0 {
		fmt.Fprintf(w, " (%d malformed rows skipped)", r.Skipped)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}

func writeSummary(w io.Writer, s *stats.Summary) {
	fmt.Fprintf(w, "%d trips match %s\n", s.Rows, describeFilter(s.Filter))
	fmt.Fprintln(w, rule)

	writeSection(w, "The Most Frequent Times of Travel", s.Times.Empty, s.Times.Elapsed, func() {
		t := s.Times.Result
		if t.PopularMonth != nil {
			fmt.Fprintf(w, "Most common month: %s (%d trips)\n", monthName(*t.PopularMonth), t.MonthCount)
		}
		if t.PopularDay != nil {
			fmt.Fprintf(w, "Most common day of week: %s (%d trips)\n", *t.PopularDay, t.DayCount)
		}
		fmt.Fprintf(w, "Most common start hour: %d (%d trips)\n", t.PopularHour, t.HourCount)
	})

	writeSection(w, "The Most Popular Stations and Trip", s.Stations.Empty, s.Stations.Elapsed, func() {
		st := s.Stations.Result
		fmt.Fprintf(w, "Most commonly used start station: %s (%d trips)\n", st.StartStation.Value, st.StartStation.Count)
		fmt.Fprintf(w, "Most commonly used end station: %s (%d trips)\n", st.EndStation.Value, st.EndStation.Count)
		fmt.Fprintf(w, "Most frequent trip: %s (%d trips)\n", st.Route.Value, st.Route.Count)
	})

	writeSection(w, "Trip Duration", s.Durations.Empty, s.Durations.Elapsed, func() {
		d := s.Durations.Result
		fmt.Fprintf(w, "Total travel time: %s\n", seconds(d.Total))
		fmt.Fprintf(w, "Mean travel time: %s\n", seconds(d.Mean))
		fmt.Fprintf(w, "Shortest / longest trip: %s / %s\n", seconds(d.Min), seconds(d.Max))
		if d.HasPercentiles() {
			fmt.Fprintf(w, "Median / p90 / p99: %s / %s / %s\n", seconds(*d.P50), seconds(*d.P90), seconds(*d.P99))
		}
	})

	writeSection(w, "User Stats", s.Users.Empty, s.Users.Elapsed, func() {
		u := s.Users.Result
		fmt.Fprintln(w, "Counts of user types:")
		writeFrequencies(w, u.UserTypes)
		if u.Genders != nil {
			fmt.Fprintln(w, "Counts of gender:")
			writeFrequencies(w, u.Genders)
		}
		if b := u.BirthYears; b != nil {
			fmt.Fprintf(w, "Earliest year of birth: %d\n", b.Earliest)
			fmt.Fprintf(w, "Most recent year of birth: %d\n", b.MostRecent)
			fmt.Fprintf(w, "Most common year of birth: %d (%d riders)\n", b.MostCommon, b.MostCommonCount)
		}
	})
}

func writeSection(w io.Writer, title string, empty bool, elapsed time.Duration, body func()) {
	fmt.Fprintf(w, "\nCalculating %s...\n\n", title)
	if empty {
		fmt.Fprintln(w, "No trips match the selected filters.")
	} else {
		body()
	}
	fmt.Fprintf(w, "\nThis took %.6f seconds.\n", elapsed.Seconds())
	fmt.Fprintln(w, rule)
}

func writeFrequencies(w io.Writer, fs []stats.Frequency[string]) {
	for _, f := range fs {
		fmt.Fprintf(w, "  %-12s %d\n", f.Value, f.Count)
	}
}

// writeRows renders one page of raw rows as a table.
func writeRows(w io.Writer, city trips.City, page paginate.Page) {
	header := []string{"#", constants.ColStartTime, constants.ColEndTime, constants.ColTripDuration,
		constants.ColStartStation, constants.ColEndStation, constants.ColUserType}
	if city.Demographics {
		header = append(header, constants.ColGender, constants.ColBirthYear)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)

	for i := range page.Rows {
		r := &page.Rows[i]
		row := []string{
			strconv.Itoa(page.Start + i),
			r.StartTime.Format(source.TimeLayout),
			formatTime(r.EndTime),
			strconv.FormatFloat(r.TripDuration, 'f', -1, 64),
			r.StartStation,
			r.EndStation,
			r.UserType,
		}
		if city.Demographics {
			year := ""
			if r.BirthYear != nil {
				year = strconv.Itoa(*r.BirthYear)
			}
			row = append(row, r.Gender, year)
		}
		table.Append(row)
	}
	table.Render()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(source.TimeLayout)
}

func describeFilter(f trips.Filter) string {
	month := "all months"
	if !f.AnyMonth() {
		month = monthName(f.Month)
	}
	day := "all days"
	if !f.AnyDay() {
		day = f.Day + "s"
	}
	return month + ", " + day
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return strconv.Itoa(m)
	}
	return time.Month(m).String()
}

// seconds formats a duration given in seconds, e.g. "5490.0 s (1h31m30s)".
func seconds(v float64) string {
	d := time.Duration(v * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%.1f s (%s)", v, d)
}
