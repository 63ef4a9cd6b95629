// Package paginate exposes fixed-size windows over a table's rows. The caller
// owns the cursor; nothing is remembered between calls.
package paginate

import (
	defaults "github.com/xtxerr/bikeshare/config"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// DefaultPageSize is the number of rows returned by NextPage.
const DefaultPageSize = defaults.DefaultPageSize

// Page is one window of rows.
type Page struct {
	// Rows are the records in [Start, Cursor).
	Rows []trips.Record `json:"rows"`

	// Start is the cursor the page was requested with.
	Start int `json:"start"`

	// Cursor is the index of the first row not yet returned.
	Cursor int `json:"cursor"`

	// HasMore is true when rows remain at Cursor.
	HasMore bool `json:"has_more"`
}

// NextPage returns up to DefaultPageSize rows starting at cursor.
func NextPage(t *trips.Table, cursor int) Page {
	return NextPageSize(t, cursor, DefaultPageSize)
}

// NextPageSize returns up to size rows starting at cursor. A negative cursor
// is treated as 0 and a non-positive size as DefaultPageSize.
func NextPageSize(t *trips.Table, cursor, size int) Page {
	if cursor < 0 {
		cursor = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}

	n := t.Len()
	if cursor >= n {
		return Page{Rows: []trips.Record{}, Start: cursor, Cursor: cursor, HasMore: false}
	}

	end := n
	if size < n-cursor {
		end = cursor + size
	}

	rows := make([]trips.Record, end-cursor)
	copy(rows, t.Records[cursor:end])

	return Page{
		Rows:    rows,
		Start:   cursor,
		Cursor:  end,
		HasMore: end < n,
	}
}

// Pages returns how many pages of size rows t spans.
func Pages(t *trips.Table, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := t.Len()
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}
