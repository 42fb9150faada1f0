// Package api provides validation utilities for API request handling.
package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-product-search/config"
	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/model"
)

const (
	maxQueryLength    = 256
	maxLimit          = 100
	maxHighlightRunes = 10000
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateQuery checks the length of a free-text query.
func ValidateQuery(field, query string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len([]rune(query)) > maxQueryLength {
		result.AddError(field, fmt.Sprintf("Query cannot be longer than %d characters", maxQueryLength))
	}

	return result
}

// ValidateLimit checks an optional result limit.
func ValidateLimit(field string, limit *int) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if limit == nil {
		return result
	}
	if *limit < 0 {
		result.AddError(field, "Limit cannot be negative")
	}
	if *limit > maxLimit {
		result.AddError(field, fmt.Sprintf("Limit cannot be greater than %d", maxLimit))
	}

	return result
}

// ValidateSearchOptions merges the request overrides into defaults and validates the result.
// The returned options are ready to pass to the engine.
func ValidateSearchOptions(defaults config.SearchOptions, threshold *float64, weights map[string]float64, limit *int, ignoreLocation bool) (config.SearchOptions, *ValidationResult) {
	result := ValidateLimit("limit", limit)

	opts := defaults.WithThreshold(defaults.Threshold)
	if threshold != nil {
		opts.Threshold = *threshold
	}
	if len(weights) > 0 {
		opts.FieldWeights = weights
	}
	if limit != nil {
		opts.Limit = *limit
	}
	opts.IgnoreLocation = ignoreLocation

	if err := opts.Validate(); err != nil {
		mergeValidationError(result, err)
		return opts, result
	}
	if opts.MaxWeight() <= 0 {
		result.AddError("field_weights", "At least one field weight must be positive")
	}

	return opts, result
}

// ValidateProducts checks an inline catalog snapshot.
func ValidateProducts(products []model.Product) *ValidationResult {
	result := &ValidationResult{Valid: true}

	seen := make(map[int]struct{}, len(products))
	for i, p := range products {
		if _, dup := seen[p.ID]; dup {
			result.AddError(fmt.Sprintf("products[%d].productId", i), fmt.Sprintf("Duplicate product ID %d", p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
	}

	return result
}

// ValidateHighlightRequest checks that exactly one of query or ranges is given.
func ValidateHighlightRequest(req HighlightRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len([]rune(req.Text)) > maxHighlightRunes {
		result.AddError("text", fmt.Sprintf("Text cannot be longer than %d characters", maxHighlightRunes))
	}

	hasQuery := strings.TrimSpace(req.Query) != ""
	hasRanges := len(req.Ranges) > 0
	switch {
	case hasQuery && hasRanges:
		result.AddError("ranges", "Provide either query or ranges, not both")
	case !hasQuery && !hasRanges:
		result.AddError("query", "Either query or ranges is required")
	}

	for i, r := range req.Ranges {
		if r.Start < 0 || r.End < r.Start {
			result.AddError(fmt.Sprintf("ranges[%d]", i), "Range must satisfy 0 <= start <= end")
		}
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateQueryBinding validates query parameter binding
func ValidateQueryBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindQuery(target); err != nil {
		result.AddError("query_parameters", "Invalid query parameters: "+err.Error())
	}

	return result
}

// merge appends the errors of other to vr.
func (vr *ValidationResult) merge(other *ValidationResult) *ValidationResult {
	for _, e := range other.Errors {
		vr.AddError(e.Field, e.Message)
	}
	return vr
}

func mergeValidationError(result *ValidationResult, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		result.merge(validationResultFromError(validationErr))
		return
	}
	result.AddError("options", err.Error())
}
