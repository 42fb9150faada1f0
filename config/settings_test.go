package config

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/model"
)

func TestDefaultSearchOptions(t *testing.T) {
	opts := DefaultSearchOptions()

	assert.Equal(t, DefaultThreshold, opts.Threshold)
	assert.Equal(t, 0, opts.Limit)
	assert.False(t, opts.IgnoreLocation)
	assert.InDelta(t, 0.40, opts.FieldWeights[model.FieldName], 1e-9)
	assert.InDelta(t, 0.02, opts.FieldWeights[model.FieldMaterial], 1e-9)
	assert.Len(t, opts.FieldWeights, len(model.SearchableFieldNames))
	assert.InDelta(t, 0.40, opts.MaxWeight(), 1e-9)
}

func TestDefaultFieldWeights_ReturnsCopy(t *testing.T) {
	w := DefaultFieldWeights()
	w[model.FieldName] = 99

	assert.InDelta(t, 0.40, DefaultFieldWeights()[model.FieldName], 1e-9)
}

func TestSearchOptions_ApplyDefaults(t *testing.T) {
	tests := []struct {
		name          string
		in            SearchOptions
		wantThreshold float64
		wantLimit     int
	}{
		{"zero threshold is kept", SearchOptions{Threshold: 0}, 0, 0},
		{"negative threshold clamps to 0", SearchOptions{Threshold: -0.5}, 0, 0},
		{"large threshold clamps to 1", SearchOptions{Threshold: 3}, 1, 0},
		{"NaN threshold becomes 0", SearchOptions{Threshold: math.NaN()}, 0, 0},
		{"negative limit means unlimited", SearchOptions{Threshold: 0.4, Limit: -2}, 0.4, 0},
		{"limit kept", SearchOptions{Threshold: 0.4, Limit: 5}, 0.4, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.in
			opts.ApplyDefaults()
			assert.Equal(t, tt.wantThreshold, opts.Threshold)
			assert.Equal(t, tt.wantLimit, opts.Limit)
			assert.Equal(t, DefaultFieldWeights(), opts.FieldWeights)
		})
	}
}

func TestSearchOptions_ApplyDefaults_KeepsCustomWeights(t *testing.T) {
	opts := SearchOptions{FieldWeights: map[string]float64{model.FieldName: 1}}
	opts.ApplyDefaults()

	assert.Equal(t, map[string]float64{model.FieldName: 1}, opts.FieldWeights)
}

func TestSearchOptions_WithThreshold(t *testing.T) {
	opts := DefaultSearchOptions()
	relaxed := opts.WithThreshold(RelaxedThreshold)

	assert.Equal(t, RelaxedThreshold, relaxed.Threshold)
	assert.Equal(t, DefaultThreshold, opts.Threshold)

	relaxed.FieldWeights[model.FieldName] = 0
	assert.InDelta(t, 0.40, opts.FieldWeights[model.FieldName], 1e-9, "weights must not be shared")
}

func TestSearchOptions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		opts    SearchOptions
		wantErr bool
	}{
		{"defaults", DefaultSearchOptions(), false},
		{"zero value", SearchOptions{}, false},
		{"threshold above 1", SearchOptions{Threshold: 1.1}, true},
		{"negative threshold", SearchOptions{Threshold: -0.1}, true},
		{"negative limit", SearchOptions{Limit: -1}, true},
		{"negative weight", SearchOptions{FieldWeights: map[string]float64{model.FieldName: -1}}, true},
		{"unknown field", SearchOptions{FieldWeights: map[string]float64{"price": 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestSearchOptions_MaxWeight(t *testing.T) {
	assert.Equal(t, 0.0, SearchOptions{}.MaxWeight())
	assert.Equal(t, 0.0, SearchOptions{FieldWeights: map[string]float64{model.FieldName: 0}}.MaxWeight())
	assert.Equal(t, 2.0, SearchOptions{FieldWeights: map[string]float64{model.FieldName: 1, model.FieldColour: 2}}.MaxWeight())
}
