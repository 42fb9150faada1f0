package search

import (
	"context"
	"fmt"
	"time"

	"github.com/gcbaptista/go-product-search/config"
	apperrors "github.com/gcbaptista/go-product-search/internal/errors"
	"github.com/gcbaptista/go-product-search/model"
	"github.com/gcbaptista/go-product-search/services"
)

// MultiSearch executes multiple named search queries against the same snapshot in parallel.
// opts supplies the defaults; each query may override the threshold.
func (s *Service) MultiSearch(ctx context.Context, snapshot []model.Product, multiQuery services.MultiSearchQuery, opts config.SearchOptions) (*services.MultiSearchResult, error) {
	startTime := time.Now()

	if len(multiQuery.Queries) == 0 {
		return nil, apperrors.NewValidationError("queries", "at least one query is required")
	}

	seen := make(map[string]struct{}, len(multiQuery.Queries))
	for _, nq := range multiQuery.Queries {
		if nq.Name == "" {
			return nil, apperrors.NewValidationError("queries", "each query must have a non-empty name")
		}
		if _, dup := seen[nq.Name]; dup {
			return nil, apperrors.NewValidationError("queries", fmt.Sprintf("duplicate query name '%s'", nq.Name))
		}
		seen[nq.Name] = struct{}{}
	}

	if multiQuery.Limit > 0 {
		opts.Limit = multiQuery.Limit
	}

	type queryResult struct {
		name    string
		outcome services.SearchOutcome
	}

	resultChan := make(chan queryResult, len(multiQuery.Queries))

	for _, namedQuery := range multiQuery.Queries {
		go func(nq services.NamedSearchQuery) {
			queryOpts := opts
			if nq.Threshold != nil {
				queryOpts.Threshold = *nq.Threshold
			}
			resultChan <- queryResult{
				name:    nq.Name,
				outcome: s.Search(snapshot, nq.Query, queryOpts),
			}
		}(namedQuery)
	}

	results := make(map[string]services.SearchOutcome, len(multiQuery.Queries))
	for i := 0; i < len(multiQuery.Queries); i++ {
		select {
		case qr := <-resultChan:
			results[qr.name] = qr.outcome
		case <-ctx.Done():
			return nil, fmt.Errorf("multi-search cancelled: %w", ctx.Err())
		}
	}

	processingTime := time.Since(startTime)

	return &services.MultiSearchResult{
		Results:          results,
		TotalQueries:     len(multiQuery.Queries),
		ProcessingTimeMs: float64(processingTime.Nanoseconds()) / 1e6,
	}, nil
}
