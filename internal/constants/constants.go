// Package constants provides centralized domain-specific constants
// for the entire bikeshare application.
package constants

// =============================================================================
// Cities
// =============================================================================

const (
	CityChicago     = "chicago"
	CityNewYorkCity = "new york city"
	CityWashington  = "washington"
)

// =============================================================================
// Filter Values
// =============================================================================

// All is the wildcard accepted for both the month and the day filter.
const All = "all"

// Months lists the month names covered by the datasets; index+1 is the month number.
var Months = []string{"january", "february", "march", "april", "may", "june"}

// Weekdays lists the canonical weekday names as derived from start times.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// =============================================================================
// Source Columns
// =============================================================================

const (
	ColStartTime    = "Start Time"
	ColEndTime      = "End Time"
	ColTripDuration = "Trip Duration"
	ColStartStation = "Start Station"
	ColEndStation   = "End Station"
	ColUserType     = "User Type"
	ColGender       = "Gender"
	ColBirthYear    = "Birth Year"
)

// RequiredColumns must be present in every city's source.
var RequiredColumns = []string{ColStartTime, ColStartStation, ColEndStation, ColTripDuration, ColUserType}

// DemographicColumns must be present in sources of cities with demographic data.
var DemographicColumns = []string{ColGender, ColBirthYear}

// SourceColumns is the column order used when a table is written back out.
var SourceColumns = []string{
	ColStartTime, ColEndTime, ColTripDuration, ColStartStation,
	ColEndStation, ColUserType, ColGender, ColBirthYear,
}

// =============================================================================
// Loader Engines
// =============================================================================

const (
	// EngineAuto picks csv or parquet from the file extension
	EngineAuto = "auto"

	EngineCSV     = "csv"
	EngineParquet = "parquet"

	// EngineDuckDB reads csv and parquet files through an in-memory DuckDB
	EngineDuckDB = "duckdb"
)

// ValidEngines contains all valid loader engine values
var ValidEngines = []string{EngineAuto, EngineCSV, EngineParquet, EngineDuckDB}

// =============================================================================
// Malformed Record Policy
// =============================================================================

const (
	// PolicyFail aborts the load on the first malformed row
	PolicyFail = "fail"

	// PolicySkip drops malformed rows and logs how many were dropped
	PolicySkip = "skip"
)

// ValidPolicies contains all valid malformed-record policies
var ValidPolicies = []string{PolicyFail, PolicySkip}

// IsOneOf checks if s is in values
func IsOneOf(s string, values []string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
