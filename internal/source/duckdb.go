package source

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/xtxerr/bikeshare/internal/errors"
)

// DuckDBReader reads csv and parquet files through an in-memory DuckDB.
// A fresh database is opened per Read and closed afterwards.
type DuckDBReader struct {
	// MemoryLimit is DuckDB's memory_limit, e.g. "1GB". Empty keeps DuckDB's default.
	MemoryLimit string
}

// memoryLimitPattern matches the sizes DuckDB accepts for memory_limit.
var memoryLimitPattern = regexp.MustCompile(`(?i)^[0-9]+(\.[0-9]+)?\s*(b|bytes|kb|mb|gb|tb|kib|mib|gib|tib)$`)

// ValidMemoryLimit reports whether s is a byte size such as "512MB" or "1.5GiB".
// SET statements cannot take parameters, so the limit is checked before it is
// spliced into one.
func ValidMemoryLimit(s string) bool {
	return memoryLimitPattern.MatchString(s)
}

// Read reads the whole file into a frame.
func (r *DuckDBReader) Read(ctx context.Context, path string) (*Frame, error) {
	if r.MemoryLimit != "" && !ValidMemoryLimit(r.MemoryLimit) {
		return nil, errors.NewValidation("duckdb memory limit", fmt.Sprintf("%q is not a byte size", r.MemoryLimit))
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close()

	if r.MemoryLimit != "" {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("SET memory_limit='%s'", r.MemoryLimit)); err != nil {
			return nil, fmt.Errorf("set memory limit: %w", err)
		}
	}

	rows, err := db.QueryContext(ctx, selectQuery(path), path)
	if err != nil {
		return nil, errors.NewDataSource(path, "query", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.NewDataSource(path, "columns", err)
	}
	frame := NewFrame(path, columns)

	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, errors.NewDataSource(path, "scan", err)
		}
		row := make([]string, len(columns))
		for i, c := range cells {
			if c.Valid {
				row[i] = c.String
			}
		}
		frame.Rows = append(frame.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDataSource(path, "iterate", err)
	}

	return frame, nil
}

// selectQuery returns the statement reading path as $1. CSV columns are read
// as VARCHAR so no DuckDB type inference leaks into the values.
func selectQuery(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return `SELECT * FROM read_parquet($1)`
	default:
		return `SELECT * FROM read_csv($1, header = true, all_varchar = true)`
	}
}
