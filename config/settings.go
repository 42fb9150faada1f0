// Package config provides configuration structures for the product search service.
// It defines per-request search options and the server configuration.
package config

import (
	"fmt"
	"maps"
	"math"

	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/internal/validator"
	"github.com/gcbaptista/go-product-search/model"
)

// Threshold conventions. Lower thresholds are stricter: a record passes a
// threshold t when 1 - score <= t.
const (
	DefaultThreshold      = 0.4
	RelaxedThreshold      = 0.6 // used by the escalator once strict attempts fail
	SuggestionThreshold   = 0.8 // very permissive, used for suggestions
	AutocompleteThreshold = 0.5
)

// DefaultFieldWeights returns a fresh copy of the default per-field weights.
// Weights are relative multipliers and need not sum to 1.
func DefaultFieldWeights() map[string]float64 {
	return map[string]float64{
		model.FieldName:         0.40,
		model.FieldDescription:  0.20,
		model.FieldCategory:     0.15,
		model.FieldTags:         0.10,
		model.FieldManufacturer: 0.08,
		model.FieldColour:       0.05,
		model.FieldMaterial:     0.02,
	}
}

// SearchOptions tunes a single search.
type SearchOptions struct {
	// Threshold is the maximum allowed distance 1 - score: 0 accepts exact
	// matches only, 1 accepts anything. Lower is stricter.
	Threshold float64 `json:"threshold" yaml:"threshold" validate:"gte=0,lte=1"`
	// FieldWeights maps field names to weights. Fields without a weight are not scored.
	FieldWeights map[string]float64 `json:"field_weights,omitempty" yaml:"field_weights" validate:"omitempty,dive,gte=0"`
	// Limit caps the number of results, 0 = unlimited.
	Limit int `json:"limit,omitempty" yaml:"limit" validate:"gte=0"`
	// IgnoreLocation disables positional scoring.
	IgnoreLocation bool `json:"ignore_location,omitempty" yaml:"ignore_location"`
}

// DefaultSearchOptions returns options with the default threshold and weights.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Threshold:    DefaultThreshold,
		FieldWeights: DefaultFieldWeights(),
	}
}

// ApplyDefaults fills empty fields and clamps out-of-range values so the
// options can always be used. A zero threshold is a valid (exact-only)
// setting and is kept.
func (o *SearchOptions) ApplyDefaults() {
	if math.IsNaN(o.Threshold) || o.Threshold < 0 {
		o.Threshold = 0
	}
	if o.Threshold > 1 {
		o.Threshold = 1
	}
	if len(o.FieldWeights) == 0 {
		o.FieldWeights = DefaultFieldWeights()
	}
	if o.Limit < 0 {
		o.Limit = 0
	}
}

// WithThreshold returns a copy of the options using threshold t.
func (o SearchOptions) WithThreshold(t float64) SearchOptions {
	o.FieldWeights = maps.Clone(o.FieldWeights)
	o.Threshold = t
	return o
}

// Validate reports out-of-range options and unknown field names.
func (o SearchOptions) Validate() error {
	if err := validator.Validate(o); err != nil {
		return err
	}
	for name := range o.FieldWeights {
		if !isSearchableField(name) {
			return validationErrorf("field_weights", "unknown field '%s'", name)
		}
	}
	return nil
}

// MaxWeight returns the heaviest configured field weight, or 0 when none is positive.
func (o SearchOptions) MaxWeight() float64 {
	heaviest := 0.0
	for _, w := range o.FieldWeights {
		if w > heaviest {
			heaviest = w
		}
	}
	return heaviest
}

func isSearchableField(name string) bool {
	for _, f := range model.SearchableFieldNames {
		if f == name {
			return true
		}
	}
	return false
}

func validationErrorf(field, format string, args ...any) error {
	return apperrors.NewValidationError(field, fmt.Sprintf(format, args...))
}
