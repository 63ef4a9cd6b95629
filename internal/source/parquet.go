package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/xtxerr/bikeshare/internal/constants"
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// TripRow is a trip in Parquet format. Values stay textual so that Parquet
// sources go through the same parsing as CSV sources.
type TripRow struct {
	StartTime    string `parquet:"Start Time,optional,zstd"`
	EndTime      string `parquet:"End Time,optional,zstd"`
	TripDuration string `parquet:"Trip Duration,optional"`
	StartStation string `parquet:"Start Station,optional,zstd"`
	EndStation   string `parquet:"End Station,optional,zstd"`
	UserType     string `parquet:"User Type,optional,zstd"`
	Gender       string `parquet:"Gender,optional,zstd"`
	BirthYear    string `parquet:"Birth Year,optional"`
}

// values returns the row in constants.SourceColumns order.
func (r *TripRow) values() []string {
	return []string{
		r.StartTime, r.EndTime, r.TripDuration, r.StartStation,
		r.EndStation, r.UserType, r.Gender, r.BirthYear,
	}
}

// TimeLayout is how start and end times are written out.
const TimeLayout = "2006-01-02 15:04:05"

// RecordToRow converts a Record to a TripRow. Demographic columns are only
// written when the city carries them.
func RecordToRow(r *trips.Record, demographics bool) TripRow {
	row := TripRow{
		StartTime:    r.StartTime.Format(TimeLayout),
		TripDuration: strconv.FormatFloat(r.TripDuration, 'f', -1, 64),
		StartStation: r.StartStation,
		EndStation:   r.EndStation,
		UserType:     r.UserType,
	}
	if !r.EndTime.IsZero() {
		row.EndTime = r.EndTime.Format(TimeLayout)
	}
	if demographics {
		row.Gender = r.Gender
		if r.BirthYear != nil {
			row.BirthYear = strconv.Itoa(*r.BirthYear)
		}
	}
	return row
}

// ParquetReader reads files written by WriteParquet or any file whose column
// names match the CSV headers.
type ParquetReader struct{}

// Read reads the whole file into a frame.
func (r *ParquetReader) Read(ctx context.Context, path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataSource(path, "open", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, errors.NewDataSource(path, "stat", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, errors.NewDataSource(path, "open parquet", err)
	}

	present := make(map[string]bool)
	for _, field := range pf.Schema().Fields() {
		present[field.Name()] = true
	}

	// Frame columns keep SourceColumns order; absent ones are left out so
	// the loader sees the same header it would see from the CSV.
	var columns []string
	var keep []int
	for i, c := range constants.SourceColumns {
		if present[c] {
			columns = append(columns, c)
			keep = append(keep, i)
		}
	}
	frame := NewFrame(path, columns)

	reader := parquet.NewGenericReader[TripRow](f, parquet.ReadBufferSize(1024*1024))
	defer reader.Close()

	batch := make([]TripRow, 1024)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := reader.Read(batch)
		for i := 0; i < n; i++ {
			all := batch[i].values()
			row := make([]string, len(keep))
			for j, k := range keep {
				row[j] = all[k]
			}
			frame.Rows = append(frame.Rows, row)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewDataSource(path, "read rows", err)
		}
		if n == 0 {
			break
		}
	}

	return frame, nil
}

// ParseCompression maps a config value to a parquet-go codec.
func ParseCompression(s string) compress.Codec {
	switch s {
	case "snappy":
		return &parquet.Snappy
	case "zstd":
		return &parquet.Zstd
	case "lz4":
		return &parquet.Lz4Raw
	case "gzip":
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

// WriteParquet writes a table to path and returns the number of rows written.
func WriteParquet(path string, t *trips.Table, compression string) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}

	writer := parquet.NewGenericWriter[TripRow](f, parquet.Compression(ParseCompression(compression)))

	const chunk = 10000
	var written int64
	rows := make([]TripRow, 0, chunk)
	flush := func() error {
		if len(rows) == 0 {
			return nil
		}
		n, err := writer.Write(rows)
		written += int64(n)
		rows = rows[:0]
		if err != nil {
			return fmt.Errorf("write rows: %w", err)
		}
		return nil
	}

	for i := range t.Records {
		rows = append(rows, RecordToRow(&t.Records[i], t.City.Demographics))
		if len(rows) == chunk {
			if err := flush(); err != nil {
				writer.Close()
				f.Close()
				return written, err
			}
		}
	}
	if err := flush(); err != nil {
		writer.Close()
		f.Close()
		return written, err
	}

	if err := writer.Close(); err != nil {
		f.Close()
		return written, fmt.Errorf("close writer: %w", err)
	}
	return written, f.Close()
}
