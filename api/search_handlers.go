package api

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-product-search/internal/highlight"
	"github.com/gcbaptista/go-product-search/internal/metrics"
	"github.com/gcbaptista/go-product-search/internal/search"
	"github.com/gcbaptista/go-product-search/internal/tokenizer"
	"github.com/gcbaptista/go-product-search/model"
	"github.com/gcbaptista/go-product-search/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query          string             `json:"query"`
	Threshold      *float64           `json:"threshold,omitempty"`      // Optional: override the configured threshold
	FieldWeights   map[string]float64 `json:"field_weights,omitempty"`  // Optional: replaces the configured weights
	Limit          *int               `json:"limit,omitempty"`          // Optional: 0 = unlimited
	IgnoreLocation bool               `json:"ignore_location,omitempty"`
	Products       []model.Product    `json:"products,omitempty"` // Optional: inline snapshot instead of the configured catalog
}

// SearchResponse is a search outcome plus fallback suggestions for sparse results.
type SearchResponse struct {
	services.SearchOutcome
	Suggestions        []model.Product          `json:"suggestions,omitempty"`
	SuggestionStrategy services.SuggestStrategy `json:"suggestion_strategy,omitempty"`
}

// MultiSearchRequest represents the JSON request for multi-search
type MultiSearchRequest struct {
	Queries  []NamedSearchRequest `json:"queries"`
	Limit    *int                 `json:"limit,omitempty"`
	Products []model.Product      `json:"products,omitempty"`
}

// NamedSearchRequest represents a single named search query in the request
type NamedSearchRequest struct {
	Name      string   `json:"name"`
	Query     string   `json:"query"`
	Threshold *float64 `json:"threshold,omitempty"`
}

// SuggestRequest asks for similar products.
type SuggestRequest struct {
	Query      string          `json:"query"`
	Limit      *int            `json:"limit,omitempty"`
	ExcludeIDs []int           `json:"exclude_ids,omitempty"`
	Products   []model.Product `json:"products,omitempty"`
}

// SuggestResponse lists suggested products and the strategy that found them.
type SuggestResponse struct {
	Suggestions []model.Product          `json:"suggestions"`
	Strategy    services.SuggestStrategy `json:"strategy"`
}

// AutocompleteRequest holds the query parameters of GET /autocomplete.
type AutocompleteRequest struct {
	Query string `form:"q"`
	Limit *int   `form:"limit"`
}

// CorrectRequest holds the query parameters of GET /correct.
type CorrectRequest struct {
	Query string `form:"q" binding:"required"`
}

// HighlightRequest asks for the highlight spans of text, either for the
// occurrences of query or for explicit byte ranges.
type HighlightRequest struct {
	Text   string            `json:"text"`
	Query  string            `json:"query,omitempty"`
	Ranges []highlight.Range `json:"ranges,omitempty"`
}

// SearchHandler handles search requests against the catalog.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	opts, result := ValidateSearchOptions(api.defaults, req.Threshold, req.FieldWeights, req.Limit, req.IgnoreLocation)
	result.merge(ValidateQuery("query", req.Query))
	result.merge(ValidateProducts(req.Products))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	snapshot, err := api.snapshot(c.Request.Context(), req.Products)
	if err != nil {
		SendServiceError(c, "catalog fetch", err)
		return
	}

	outcome := api.engine.Search(snapshot, req.Query, opts)
	response := SearchResponse{SearchOutcome: outcome}

	if api.search.SuggestionSize > 0 && outcome.TotalResults < api.search.SparseResultThreshold {
		pool := search.ExcludeIDs(snapshot, search.ResultIDs(outcome.Results))
		response.Suggestions, response.SuggestionStrategy = api.suggester.SuggestWithStrategy(pool, req.Query, api.search.SuggestionSize)
		metrics.ObserveSuggestions(response.SuggestionStrategy)
	}

	responseTime := time.Since(startTime)
	metrics.ObserveSearch(outcome, responseTime.Seconds())
	api.analytics.TrackOutcome(outcome, responseTime)

	api.logger.Debug("search served",
		zap.String("query_id", outcome.QueryId),
		zap.String("attempt", string(outcome.Attempt)),
		zap.Int("total_results", outcome.TotalResults),
		zap.Int("suggestions", len(response.Suggestions)),
	)

	c.JSON(http.StatusOK, response)
}

// MultiSearchHandler handles multi-query search requests against one snapshot.
// Request Body: MultiSearchRequest
func (api *API) MultiSearchHandler(c *gin.Context) {
	startTime := time.Now()

	var req MultiSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	result := ValidateLimit("limit", req.Limit)
	for i, q := range req.Queries {
		result.merge(ValidateQuery(fmt.Sprintf("queries[%d].query", i), q.Query))
		if q.Threshold != nil && (*q.Threshold < 0 || *q.Threshold > 1) {
			result.AddError(fmt.Sprintf("queries[%d].threshold", i), "Threshold must be between 0 and 1")
		}
	}
	result.merge(ValidateProducts(req.Products))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	multiQuery := services.MultiSearchQuery{
		Queries: make([]services.NamedSearchQuery, 0, len(req.Queries)),
	}
	if req.Limit != nil {
		multiQuery.Limit = *req.Limit
	}
	for _, q := range req.Queries {
		multiQuery.Queries = append(multiQuery.Queries, services.NamedSearchQuery{
			Name:      q.Name,
			Query:     q.Query,
			Threshold: q.Threshold,
		})
	}

	snapshot, err := api.snapshot(c.Request.Context(), req.Products)
	if err != nil {
		SendServiceError(c, "catalog fetch", err)
		return
	}

	results, err := api.engine.MultiSearch(c.Request.Context(), snapshot, multiQuery, api.defaults)
	if err != nil {
		SendServiceError(c, "multi-search", err)
		return
	}

	responseTime := time.Since(startTime)
	for _, outcome := range results.Results {
		metrics.ObserveSearch(outcome, responseTime.Seconds())
		api.analytics.TrackOutcome(outcome, responseTime)
	}

	c.JSON(http.StatusOK, results)
}

// SuggestHandler returns similar products for a query.
// Request Body: SuggestRequest
func (api *API) SuggestHandler(c *gin.Context) {
	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	result := ValidateLimit("limit", req.Limit)
	result.merge(ValidateQuery("query", req.Query))
	result.merge(ValidateProducts(req.Products))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	limit := api.search.SuggestionSize
	if req.Limit != nil {
		limit = *req.Limit
	}

	snapshot, err := api.snapshot(c.Request.Context(), req.Products)
	if err != nil {
		SendServiceError(c, "catalog fetch", err)
		return
	}

	suggestions, strategy := api.suggester.SuggestWithStrategy(search.ExcludeIDs(snapshot, req.ExcludeIDs), req.Query, limit)
	metrics.ObserveSuggestions(strategy)

	c.JSON(http.StatusOK, SuggestResponse{Suggestions: suggestions, Strategy: strategy})
}

// AutocompleteHandler returns a short product list for a partially typed query.
// Query Parameters: q, limit
func (api *API) AutocompleteHandler(c *gin.Context) {
	var req AutocompleteRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	result := ValidateLimit("limit", req.Limit)
	result.merge(ValidateQuery("q", req.Query))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	limit := api.search.AutocompleteLimit
	if req.Limit != nil && *req.Limit > 0 {
		limit = *req.Limit
	}

	products := []model.Product{}
	if len([]rune(strings.TrimSpace(req.Query))) >= 2 {
		snapshot, err := api.snapshot(c.Request.Context(), nil)
		if err != nil {
			SendServiceError(c, "catalog fetch", err)
			return
		}
		products = api.engine.Autocomplete(snapshot, req.Query, limit)
	}

	c.JSON(http.StatusOK, gin.H{
		"query":       req.Query,
		"suggestions": products,
	})
}

// CorrectHandler returns the spell-corrected form of a query.
// Query Parameters: q
func (api *API) CorrectHandler(c *gin.Context) {
	var req CorrectRequest
	if result := ValidateQueryBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateQuery("q", req.Query); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	// Same comparison as Search: a correction counts when it differs from the trimmed, lowercased query.
	normalized := tokenizer.Normalize(req.Query)
	corrected := api.engine.Correct(normalized)

	c.JSON(http.StatusOK, gin.H{
		"query":     req.Query,
		"corrected": corrected,
		"changed":   corrected != normalized,
	})
}

// HighlightHandler splits text into highlighted and plain spans.
// Request Body: HighlightRequest
func (api *API) HighlightHandler(c *gin.Context) {
	var req HighlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}
	if result := ValidateHighlightRequest(req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	var spans []highlight.Span
	if len(req.Ranges) > 0 {
		spans = highlight.Ranges(req.Text, slices.Clone(req.Ranges))
	} else {
		spans = highlight.Text(req.Text, req.Query)
	}

	c.JSON(http.StatusOK, gin.H{"spans": spans})
}
