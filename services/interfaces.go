package services

import (
	"context"

	"github.com/gcbaptista/go-product-search/config"
	"github.com/gcbaptista/go-product-search/internal/highlight"
	"github.com/gcbaptista/go-product-search/model"
)

// Attempt names the escalation stage that produced a search outcome.
type Attempt string

const (
	AttemptNone             Attempt = "none"              // every stage came back empty
	AttemptEmptyQuery       Attempt = "empty_query"       // blank query, whole snapshot returned
	AttemptCorrected        Attempt = "corrected"         // spell-corrected query, configured threshold
	AttemptOriginal         Attempt = "original"          // literal query, configured threshold
	AttemptRelaxed          Attempt = "relaxed"           // relaxed threshold
	AttemptLocationAgnostic Attempt = "location_agnostic" // relaxed threshold, positional scoring off
)

// MatchResult is a product that passed the active threshold.
type MatchResult struct {
	Product           model.Product                `json:"product"`
	Score             float64                      `json:"score"`                         // 1 = perfect match
	MatchedFieldSpans map[string][]highlight.Range `json:"matched_field_spans,omitempty"` // Field name -> byte ranges in the field's original value
}

// SearchOutcome represents the result of a search operation.
type SearchOutcome struct {
	Results        []MatchResult `json:"results"`
	Query          string        `json:"query"`           // trimmed, lowercased query
	CorrectedQuery *string       `json:"corrected_query"` // set only when the correction produced the results
	TotalResults   int           `json:"total_results"`   // matches before the limit was applied
	HasResults     bool          `json:"has_results"`
	Attempt        Attempt       `json:"attempt"`
	Took           int64         `json:"took"`     // milliseconds
	QueryId        string        `json:"query_id"` // unique UUID for this search query
}

// MultiSearchQuery represents a request to execute multiple named search queries
// against the same catalog snapshot.
type MultiSearchQuery struct {
	Queries []NamedSearchQuery `json:"queries"`
	Limit   int                `json:"limit,omitempty"`
}

// NamedSearchQuery represents a single named search query within a multi-search request
type NamedSearchQuery struct {
	Name      string   `json:"name"`
	Query     string   `json:"query"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// MultiSearchResult represents the response from a multi-search operation
type MultiSearchResult struct {
	Results          map[string]SearchOutcome `json:"results"`
	TotalQueries     int                      `json:"total_queries"`
	ProcessingTimeMs float64                  `json:"processing_time_ms"`
}

// Searcher defines search operations over a catalog snapshot
type Searcher interface {
	Search(snapshot []model.Product, query string, opts config.SearchOptions) SearchOutcome
}

// MultiSearcher defines operations for performing multiple queries in a single request
type MultiSearcher interface {
	MultiSearch(ctx context.Context, snapshot []model.Product, query MultiSearchQuery, opts config.SearchOptions) (*MultiSearchResult, error)
}

// Autocompleter returns a short list of products for a partially typed query
type Autocompleter interface {
	Autocomplete(snapshot []model.Product, query string, limit int) []model.Product
}

// Suggester proposes alternative products when a search comes back sparse
type Suggester interface {
	SuggestWithStrategy(snapshot []model.Product, query string, limit int) ([]model.Product, SuggestStrategy)
}

// SuggestStrategy names the fallback step that produced a suggestion list.
type SuggestStrategy string

const (
	SuggestNone     SuggestStrategy = "none"
	SuggestRelaxed  SuggestStrategy = "relaxed_match"
	SuggestCategory SuggestStrategy = "category_keyword"
	SuggestRandom   SuggestStrategy = "random_sample"
)

// Corrector maps a query to its canonical spelling
type Corrector interface {
	Correct(query string) string
}

// ProductSearch combines every engine operation the HTTP layer uses
type ProductSearch interface {
	Searcher
	MultiSearcher
	Autocompleter
	Corrector
}
