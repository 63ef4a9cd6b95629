package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/errors"
)

// Frame is a source table with every cell kept as text.
type Frame struct {
	Path    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewFrame creates a frame over the given header.
func NewFrame(path string, columns []string) *Frame {
	f := &Frame{
		Path:    path,
		Columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		name := strings.TrimSpace(c)
		if _, dup := f.index[name]; !dup {
			f.index[name] = i
		}
	}
	return f
}

// Index returns the position of a column.
func (f *Frame) Index(column string) (int, bool) {
	i, ok := f.index[column]
	return i, ok
}

// Has reports whether the column is present.
func (f *Frame) Has(column string) bool {
	_, ok := f.index[column]
	return ok
}

// Missing returns the columns from want that the frame lacks.
func (f *Frame) Missing(want []string) []string {
	var missing []string
	for _, c := range want {
		if !f.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Cell returns row[column], or "" when the row is short.
func (f *Frame) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Len returns the number of data rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Reader reads a whole source file.
type Reader interface {
	Read(ctx context.Context, path string) (*Frame, error)
}

// Options configures the readers.
type Options struct {
	// DuckDBMemoryLimit is applied to the DuckDB engine, e.g. "1GB".
	DuckDBMemoryLimit string
}

// NewReader returns the reader for an engine. EngineAuto is resolved per
// path by ReaderFor.
func NewReader(engine string, opts Options) (Reader, error) {
	switch engine {
	case constants.EngineCSV:
		return &CSVReader{}, nil
	case constants.EngineParquet:
		return &ParquetReader{}, nil
	case constants.EngineDuckDB:
		return &DuckDBReader{MemoryLimit: opts.DuckDBMemoryLimit}, nil
	default:
		return nil, errors.NewInvalidInput("loader engine", engine, constants.ValidEngines)
	}
}

// ReaderFor returns the reader for a path, picking csv or parquet from the
// extension when engine is auto.
func ReaderFor(engine, path string, opts Options) (Reader, error) {
	if engine != constants.EngineAuto {
		return NewReader(engine, opts)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return NewReader(constants.EngineParquet, opts)
	default:
		return NewReader(constants.EngineCSV, opts)
	}
}
