package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
)

type sample struct {
	Query     string  `json:"query" validate:"required"`
	Threshold float64 `json:"threshold" validate:"gte=0,lte=1"`
	Mode      string  `json:"mode,omitempty" validate:"omitempty,oneof=fast slow"`
	Internal  int     `validate:"gte=0"`
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, Validate(sample{Query: "jacket", Threshold: 0.4, Mode: "fast"}))
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	err := Validate(sample{Threshold: 1.5, Mode: "other", Internal: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))

	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, map[string]string{
		"query":     "is required",
		"threshold": "must be less than or equal to 1",
		"mode":      "must be one of: fast slow",
		"Internal":  "must be greater than or equal to 0",
	}, vErr.Fields)
}

func TestValidate_NonStruct(t *testing.T) {
	err := Validate("not a struct")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperrors.ErrInvalidInput))
}
