// Package config loads and validates the bikeshare configuration.
//
// Configuration comes from three layers, later layers winning:
//   - built-in defaults (DefaultConfig)
//   - a YAML file, with ${VAR} environment expansion
//   - BIKESHARE_* environment variables
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	defaults "github.com/xtxerr/bikeshare/config"
	"github.com/xtxerr/bikeshare/internal/errors"
	"github.com/xtxerr/bikeshare/internal/source"
	"github.com/xtxerr/bikeshare/internal/trips"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "BIKESHARE"

// Config represents the complete application configuration.
type Config struct {
	// DataDir is the directory relative city sources are resolved against.
	DataDir string `yaml:"data_dir" split_words:"true" validate:"required"`

	// Cities overrides the source file of built-in cities, keyed by city name.
	Cities map[string]CityConfig `yaml:"cities" ignored:"true"`

	// Loader configures how sources are read.
	Loader LoaderConfig `yaml:"loader"`

	// Stats configures the aggregators.
	Stats StatsConfig `yaml:"stats"`

	// Paging configures the raw data paginator.
	Paging PagingConfig `yaml:"paging"`

	// Log configures logging.
	Log LogConfig `yaml:"log"`

	// Export configures the convert command.
	Export ExportConfig `yaml:"export"`
}

// CityConfig overrides a built-in city's source.
type CityConfig struct {
	// Source is a csv or parquet path.
	Source string `yaml:"source"`
}

// LoaderConfig configures the record store loader.
type LoaderConfig struct {
	// Engine is one of: auto, csv, parquet, duckdb.
	Engine string `yaml:"engine" validate:"oneof=auto csv parquet duckdb"`

	// MalformedPolicy is fail or skip.
	MalformedPolicy string `yaml:"malformed_policy" split_words:"true" validate:"oneof=fail skip"`

	// DuckDBMemoryLimit is passed to DuckDB's memory_limit setting.
	DuckDBMemoryLimit string `yaml:"duckdb_memory_limit" split_words:"true" validate:"omitempty,bytesize"`
}

// StatsConfig configures the aggregators.
type StatsConfig struct {
	Percentiles PercentileConfig `yaml:"percentiles"`
}

// PercentileConfig configures DDSketch duration quantiles.
type PercentileConfig struct {
	// Enabled enables quantile calculation.
	Enabled bool `yaml:"enabled"`

	// Accuracy is the relative accuracy (0.01 = 1% error).
	Accuracy float64 `yaml:"accuracy"`
}

// PagingConfig configures the raw data paginator.
type PagingConfig struct {
	PageSize int `yaml:"page_size" split_words:"true" validate:"gt=0"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// JSON switches the log format from text to JSON.
	JSON bool `yaml:"json"`
}

// ExportConfig configures Parquet output.
type ExportConfig struct {
	// Compression is snappy, zstd, lz4, gzip or none.
	Compression string `yaml:"compression" validate:"oneof=snappy zstd lz4 gzip none"`
}

// =============================================================================
// Load
// =============================================================================

// Load loads configuration from a YAML file and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from BIKESHARE_* environment variables,
// e.g. BIKESHARE_DATA_DIR or BIKESHARE_LOADER_ENGINE.
func (c *Config) ApplyEnv() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: defaults.DefaultDataDir,
		Loader: LoaderConfig{
			Engine:            defaults.DefaultEngine,
			MalformedPolicy:   defaults.DefaultMalformedPolicy,
			DuckDBMemoryLimit: defaults.DefaultDuckDBMemoryLimit,
		},
		Stats: StatsConfig{
			Percentiles: PercentileConfig{
				Enabled:  defaults.DefaultPercentilesEnabled,
				Accuracy: defaults.DefaultPercentileAccuracy,
			},
		},
		Paging: PagingConfig{
			PageSize: defaults.DefaultPageSize,
		},
		Log: LogConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Compression: defaults.DefaultCompression,
		},
	}
}

// =============================================================================
// Validate
// =============================================================================

// structValidator checks the validate tags, reporting fields by their YAML path.
var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		return source.ValidMemoryLimit(fl.Field().String())
	})
	return v
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	errs := errors.NewValidationErrors()

	if err := structValidator.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				addFieldError(errs, fe)
			}
		} else {
			errs.Add(errors.Wrap(err, "validate config"))
		}
	}

	known := trips.DefaultRegistry()
	for name, city := range c.Cities {
		if _, err := known.Lookup(name); err != nil {
			errs.AddField("cities", fmt.Sprintf("unsupported city %q", name))
			continue
		}
		if city.Source == "" {
			errs.AddField(fmt.Sprintf("cities[%s].source", name), "cannot be empty")
		}
	}

	if c.Stats.Percentiles.Enabled {
		if a := c.Stats.Percentiles.Accuracy; a <= 0 || a >= 1 {
			errs.AddField("stats.percentiles.accuracy", "must be between 0 and 1 (exclusive)")
		}
	}

	return errs.Err()
}

// addFieldError converts a tag violation into a validation error.
func addFieldError(errs *errors.ValidationErrors, fe validator.FieldError) {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		errs.AddMissing(field)
	case "oneof":
		errs.AddField(field, fmt.Sprintf("%q must be one of %v", fe.Value(), strings.Fields(fe.Param())))
	case "gt":
		errs.AddField(field, fmt.Sprintf("must be greater than %s", fe.Param()))
	case "bytesize":
		errs.AddField(field, fmt.Sprintf("%q is not a size such as 512MB or 1GB", fe.Value()))
	default:
		errs.AddField(field, fmt.Sprintf("failed %s check", fe.Tag()))
	}
}

// =============================================================================
// Derived values
// =============================================================================

// Registry returns the city registry with source overrides applied and
// relative sources resolved against DataDir.
func (c *Config) Registry() *trips.Registry {
	base := trips.DefaultRegistry()

	overrides := make(map[string]string, len(c.Cities))
	for name, city := range c.Cities {
		if resolved, err := base.Lookup(name); err == nil && city.Source != "" {
			overrides[resolved.Name] = city.Source
		}
	}

	cities := base.Cities()
	for i := range cities {
		if src, ok := overrides[cities[i].Name]; ok {
			cities[i].Source = src
		}
		if !filepath.IsAbs(cities[i].Source) {
			cities[i].Source = filepath.Join(c.DataDir, cities[i].Source)
		}
	}

	return trips.NewRegistry(cities)
}
