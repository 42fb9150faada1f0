package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-product-search/config"
	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/services"
)

func TestMultiSearch(t *testing.T) {
	strict := 0.0
	query := services.MultiSearchQuery{
		Queries: []services.NamedSearchQuery{
			{Name: "jackets", Query: "jaket"},
			{Name: "blue", Query: "blue"},
			{Name: "strict", Query: "red jacket", Threshold: &strict},
			{Name: "nothing", Query: "xyzxyz"},
		},
	}

	result, err := newTestService().MultiSearch(context.Background(), testCatalog(), query, config.DefaultSearchOptions())

	require.NoError(t, err)
	assert.Equal(t, 4, result.TotalQueries)
	require.Len(t, result.Results, 4)
	assert.Equal(t, []int{1, 6}, resultIDs(result.Results["jackets"].Results))
	assert.Equal(t, []int{2, 6}, resultIDs(result.Results["blue"].Results))
	assert.Equal(t, []int{1}, resultIDs(result.Results["strict"].Results))
	assert.False(t, result.Results["nothing"].HasResults)
	assert.GreaterOrEqual(t, result.ProcessingTimeMs, 0.0)
}

func TestMultiSearch_Limit(t *testing.T) {
	query := services.MultiSearchQuery{
		Queries: []services.NamedSearchQuery{{Name: "blue", Query: "blue"}},
		Limit:   1,
	}

	result, err := newTestService().MultiSearch(context.Background(), testCatalog(), query, config.DefaultSearchOptions())

	require.NoError(t, err)
	assert.Len(t, result.Results["blue"].Results, 1)
	assert.Equal(t, 2, result.Results["blue"].TotalResults)
}

func TestMultiSearch_InvalidQueries(t *testing.T) {
	tests := []struct {
		name    string
		queries []services.NamedSearchQuery
		wantErr string
	}{
		{"no queries", nil, "at least one query is required"},
		{"unnamed query", []services.NamedSearchQuery{{Query: "blue"}}, "non-empty name"},
		{"duplicate names", []services.NamedSearchQuery{{Name: "a", Query: "blue"}, {Name: "a", Query: "red"}}, "duplicate query name 'a'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService().MultiSearch(context.Background(), testCatalog(),
				services.MultiSearchQuery{Queries: tt.queries}, config.DefaultSearchOptions())
			assert.ErrorContains(t, err, tt.wantErr)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}
