package source

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/xtxerr/bikeshare/internal/errors"
)

// ctxCheckEvery is how many rows are read between context checks.
const ctxCheckEvery = 4096

// CSVReader reads comma-separated files with a header row.
type CSVReader struct{}

// Read reads the whole file into a frame.
func (r *CSVReader) Read(ctx context.Context, path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataSource(path, "open", err)
	}
	defer f.Close()

	return r.decode(ctx, path, f)
}

func (r *CSVReader) decode(ctx context.Context, path string, in io.Reader) (*Frame, error) {
	reader := csv.NewReader(in)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewDataSource(path, "empty file", nil)
	}
	if err != nil {
		return nil, errors.NewDataSource(path, "read header", err)
	}

	// Strip BOM from first field if present
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\xef\xbb\xbf")
	}

	frame := NewFrame(path, header)
	for {
		if len(frame.Rows)%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewDataSource(path, "read record", err)
		}
		frame.Rows = append(frame.Rows, record)
	}

	return frame, nil
}
