package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for common error conditions
var (
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrCatalogUnavailable is returned when the product catalog cannot be fetched
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrUnsupportedCatalog is returned when a catalog location has no known source
	ErrUnsupportedCatalog = errors.New("unsupported catalog")

	// ErrJobNotFound is returned when a background job doesn't exist
	ErrJobNotFound = errors.New("job not found")
)

// ValidationError represents an input validation error with context.
// Fields holds one message per offending field when several failed at once.
type ValidationError struct {
	Field   string
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		msgs := make([]string, 0, len(names))
		for _, name := range names {
			msgs = append(msgs, fmt.Sprintf("field '%s' %s", name, e.Fields[name]))
		}
		return "validation error: " + strings.Join(msgs, "; ")
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewFieldsValidationError creates a ValidationError carrying one message per field
func NewFieldsValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// CatalogUnavailableError wraps the failure of a catalog source
type CatalogUnavailableError struct {
	Source string
	Err    error
}

func (e *CatalogUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog '%s' unavailable: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("catalog '%s' unavailable", e.Source)
}

func (e *CatalogUnavailableError) Is(target error) bool {
	return target == ErrCatalogUnavailable
}

func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}

// NewCatalogUnavailableError creates a new CatalogUnavailableError
func NewCatalogUnavailableError(source string, err error) *CatalogUnavailableError {
	return &CatalogUnavailableError{Source: source, Err: err}
}

// UnsupportedCatalogError is returned for catalog locations no source can read
type UnsupportedCatalogError struct {
	Location string
}

func (e *UnsupportedCatalogError) Error() string {
	return fmt.Sprintf("no catalog source supports '%s'", e.Location)
}

func (e *UnsupportedCatalogError) Is(target error) bool {
	return target == ErrUnsupportedCatalog
}

// NewUnsupportedCatalogError creates a new UnsupportedCatalogError
func NewUnsupportedCatalogError(location string) *UnsupportedCatalogError {
	return &UnsupportedCatalogError{Location: location}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}
