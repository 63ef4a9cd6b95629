// Package config provides configuration defaults for the bikeshare application.
//
// Users can override these values via bikeshare.yaml or BIKESHARE_* environment
// variables.
package config

// =============================================================================
// Data Defaults
// =============================================================================

const (
	// DefaultDataDir is where city source files are looked up.
	// Override via config: data_dir, env: BIKESHARE_DATA_DIR
	DefaultDataDir = "data"

	// DefaultEngine selects the reader from the source file extension.
	// Override via config: loader.engine, env: BIKESHARE_LOADER_ENGINE
	DefaultEngine = "auto"

	// DefaultMalformedPolicy aborts a load on the first unparseable row.
	// Override via config: loader.malformed_policy, env: BIKESHARE_LOADER_MALFORMED_POLICY
	DefaultMalformedPolicy = "fail"

	// DefaultDuckDBMemoryLimit bounds the in-memory DuckDB used by the duckdb engine.
	// Override via config: loader.duckdb_memory_limit, env: BIKESHARE_LOADER_DUCK_DB_MEMORY_LIMIT
	DefaultDuckDBMemoryLimit = "1GB"
)

// =============================================================================
// Statistics Defaults
// =============================================================================

const (
	// DefaultPercentilesEnabled turns on approximate duration quantiles.
	// Override via config: stats.percentiles.enabled
	DefaultPercentilesEnabled = true

	// DefaultPercentileAccuracy is the DDSketch relative accuracy (0.01 = 1% error).
	// Override via config: stats.percentiles.accuracy
	DefaultPercentileAccuracy = 0.01
)

// =============================================================================
// Paging Defaults
// =============================================================================

const (
	// DefaultPageSize is the number of raw rows shown per request.
	// Override via config: paging.page_size, env: BIKESHARE_PAGING_PAGE_SIZE
	DefaultPageSize = 5
)

// =============================================================================
// Export Defaults
// =============================================================================

const (
	// DefaultCompression is the Parquet codec used by the convert command.
	// One of: snappy, zstd, lz4, gzip, none.
	// Override via config: export.compression
	DefaultCompression = "zstd"
)
