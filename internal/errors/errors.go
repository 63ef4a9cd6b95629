// LOCATION: internal/errors/errors.go
//
// This file provides:
// - Sentinel errors for all error conditions
// - Error category checking functions
// - Error wrapping utilities
// - Constructors that attach city, row and column context

package errors

import (
	"errors"
	"fmt"
)

// ============================================================================
// Sentinel errors
// ============================================================================

var (
	// Load errors
	ErrUnknownCity     = errors.New("unknown city")
	ErrDataSource      = errors.New("data source error")
	ErrMalformedRecord = errors.New("malformed record")

	// Aggregation errors
	ErrEmptyResult = errors.New("no rows to aggregate")

	// Input and configuration errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrMissingField  = errors.New("missing required field")
)

// ============================================================================
// Helper functions for error checking
// ============================================================================

// Is is a convenience wrapper for errors.Is
var Is = errors.Is

// As is a convenience wrapper for errors.As
var As = errors.As

// IsUnknownCity returns true if err is an unknown-city error.
func IsUnknownCity(err error) bool {
	return errors.Is(err, ErrUnknownCity)
}

// IsEmptyResult returns true if an aggregation had nothing to work on.
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}

// IsLoadError returns true if err happened while reading a city's records.
func IsLoadError(err error) bool {
	return errors.Is(err, ErrUnknownCity) ||
		errors.Is(err, ErrDataSource) ||
		errors.Is(err, ErrMalformedRecord)
}

// IsValidation returns true if err is an input or configuration error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingField)
}

// IsRecoverable returns true if the caller can ask the user again instead
// of aborting the run.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrUnknownCity) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyResult)
}

// ============================================================================
// Error wrapping utilities
// ============================================================================

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// ============================================================================
// Error constructors with context
// ============================================================================

// NewUnknownCity creates an unknown-city error for the requested name.
func NewUnknownCity(name string) error {
	return fmt.Errorf("city '%s': %w", name, ErrUnknownCity)
}

// NewDataSource creates a data source error. cause may be nil.
func NewDataSource(source, reason string, cause error) error {
	if cause != nil {
		return fmt.Errorf("source '%s': %s: %w: %w", source, reason, ErrDataSource, cause)
	}
	return fmt.Errorf("source '%s': %s: %w", source, reason, ErrDataSource)
}

// NewMalformedRecord creates a malformed record error for a 1-based data row.
func NewMalformedRecord(row int, column, value string) error {
	return fmt.Errorf("row %d: column '%s' value '%s': %w", row, column, value, ErrMalformedRecord)
}

// NewEmptyResult creates an empty result error naming the statistic.
func NewEmptyResult(statistic string) error {
	return fmt.Errorf("%s: %w", statistic, ErrEmptyResult)
}

// NewInvalidInput creates an input rejection listing what would be accepted.
func NewInvalidInput(field, value string, accepted []string) error {
	return fmt.Errorf("%s '%s' not one of %v: %w", field, value, accepted, ErrInvalidInput)
}

// NewValidation creates a validation error with context.
func NewValidation(field, reason string) error {
	return fmt.Errorf("invalid %s: %s: %w", field, reason, ErrInvalidConfig)
}

// NewMissingField creates a missing field error.
func NewMissingField(field string) error {
	return fmt.Errorf("%s: %w", field, ErrMissingField)
}

// ============================================================================
// Validation Errors Collection
// ============================================================================

// ValidationErrors collects multiple validation errors.
type ValidationErrors struct {
	Errors []error
}

// NewValidationErrors creates a new ValidationErrors collector.
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{}
}

// Add adds an error to the collection.
func (v *ValidationErrors) Add(err error) {
	if err != nil {
		v.Errors = append(v.Errors, err)
	}
}

// AddField adds a field validation error.
func (v *ValidationErrors) AddField(field, reason string) {
	v.Errors = append(v.Errors, NewValidation(field, reason))
}

// AddMissing adds a missing field error.
func (v *ValidationErrors) AddMissing(field string) {
	v.Errors = append(v.Errors, NewMissingField(field))
}

// HasErrors returns true if there are any errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}
	if len(v.Errors) == 1 {
		return v.Errors[0].Error()
	}

	msg := fmt.Sprintf("validation failed with %d errors:", len(v.Errors))
	for _, err := range v.Errors {
		msg += "\n  - " + err.Error()
	}
	return msg
}

// Err returns nil if no errors, otherwise returns the ValidationErrors.
func (v *ValidationErrors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

// Unwrap returns the first error for errors.Is/As support.
func (v *ValidationErrors) Unwrap() error {
	if len(v.Errors) == 0 {
		return nil
	}
	return v.Errors[0]
}
