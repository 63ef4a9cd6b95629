// Package source reads city trip files into string frames and writes
// tables back out as Parquet.
//
// Three engines are available:
//   - csv: encoding/csv, one pass, no type inference
//   - parquet: parquet-go generic reader over TripRow
//   - duckdb: an in-memory DuckDB running read_csv / read_parquet
//
// All engines produce the same Frame, so the loader parses values in one place.
package source
