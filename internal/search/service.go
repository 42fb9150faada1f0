package search

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-product-search/config"
	"github.com/gcbaptista/go-product-search/internal/logger"
	"github.com/gcbaptista/go-product-search/internal/tokenizer"
	"github.com/gcbaptista/go-product-search/internal/typoutil"
	"github.com/gcbaptista/go-product-search/model"
	"github.com/gcbaptista/go-product-search/services"
)

// Service implements fuzzy search over caller-supplied catalog snapshots.
// It holds no per-query state and is safe for concurrent use.
// It fulfills the services.ProductSearch interface.
type Service struct {
	corrector *typoutil.Corrector
	logger    *zap.Logger
}

// NewService creates a new search Service. A nil corrector uses the default
// misspelling table; a nil logger disables escalation traces.
func NewService(corrector *typoutil.Corrector, log *zap.Logger) *Service {
	if corrector == nil {
		corrector = typoutil.DefaultCorrector()
	}
	return &Service{
		corrector: corrector,
		logger:    logger.OrNop(log),
	}
}

// attempt is one query variant and option set tried by Search.
type attempt struct {
	stage services.Attempt
	query string
	opts  config.SearchOptions
}

// Correct returns the canonical spelling of query.
func (s *Service) Correct(query string) string {
	return s.corrector.Correct(query)
}

// Search runs query against snapshot, escalating through progressively more
// permissive attempts until one of them matches:
//
//  1. the spell-corrected query at opts.Threshold (only when the correction changes the query)
//  2. the query as typed at opts.Threshold
//  3. the corrected query (or the query as typed) at the relaxed threshold
//  4. attempt 3 with positional scoring disabled
//
// A blank query returns the whole snapshot with score 1.
func (s *Service) Search(snapshot []model.Product, query string, opts config.SearchOptions) services.SearchOutcome {
	startTime := time.Now()
	opts.ApplyDefaults()

	normalized := tokenizer.Normalize(query)
	outcome := services.SearchOutcome{
		Query:   normalized,
		QueryId: uuid.New().String(),
		Attempt: services.AttemptNone,
		Results: []services.MatchResult{},
	}

	if normalized == "" {
		outcome.Attempt = services.AttemptEmptyQuery
		outcome.Results = allProducts(snapshot)
		s.finish(&outcome, opts.Limit, startTime)
		return outcome
	}

	corrected := s.corrector.Correct(normalized)
	for _, a := range s.plan(normalized, corrected, opts) {
		matches := Rank(snapshot, a.query, a.opts)
		s.logger.Debug("search attempt",
			zap.String("query_id", outcome.QueryId),
			zap.String("stage", string(a.stage)),
			zap.String("query", a.query),
			zap.Float64("threshold", a.opts.Threshold),
			zap.Int("matches", len(matches)))

		if len(matches) == 0 {
			continue
		}

		outcome.Results = matches
		outcome.Attempt = a.stage
		if a.query != normalized {
			c := a.query
			outcome.CorrectedQuery = &c
		}
		break
	}

	s.finish(&outcome, opts.Limit, startTime)
	return outcome
}

// plan lists the escalation attempts for a non-blank query.
func (s *Service) plan(normalized, corrected string, opts config.SearchOptions) []attempt {
	attempts := make([]attempt, 0, 4)

	queryToUse := normalized
	if corrected != "" && corrected != normalized {
		queryToUse = corrected
		attempts = append(attempts, attempt{stage: services.AttemptCorrected, query: corrected, opts: opts})
	}
	attempts = append(attempts, attempt{stage: services.AttemptOriginal, query: normalized, opts: opts})

	// Relaxing never tightens a threshold the caller already set above the relaxed one.
	relaxed := opts.WithThreshold(max(opts.Threshold, config.RelaxedThreshold))
	attempts = append(attempts, attempt{stage: services.AttemptRelaxed, query: queryToUse, opts: relaxed})

	agnostic := relaxed
	agnostic.IgnoreLocation = true
	attempts = append(attempts, attempt{stage: services.AttemptLocationAgnostic, query: queryToUse, opts: agnostic})

	return attempts
}

func (s *Service) finish(outcome *services.SearchOutcome, limit int, startTime time.Time) {
	outcome.TotalResults = len(outcome.Results)
	if limit > 0 && len(outcome.Results) > limit {
		outcome.Results = outcome.Results[:limit]
	}
	outcome.HasResults = len(outcome.Results) > 0
	outcome.Took = time.Since(startTime).Milliseconds()
}

// Autocomplete returns up to limit products for a partially typed query.
// Queries shorter than two characters return nothing.
func (s *Service) Autocomplete(snapshot []model.Product, query string, limit int) []model.Product {
	if utf8.RuneCountInString(tokenizer.Normalize(query)) < 2 {
		return []model.Product{}
	}
	if limit <= 0 {
		limit = DefaultAutocompleteLimit
	}

	opts := config.DefaultSearchOptions()
	opts.Threshold = config.AutocompleteThreshold
	opts.Limit = limit

	outcome := s.Search(snapshot, query, opts)
	return products(outcome.Results)
}

// DefaultAutocompleteLimit is the number of autocomplete entries returned when no limit is given.
const DefaultAutocompleteLimit = 6

func allProducts(snapshot []model.Product) []services.MatchResult {
	results := make([]services.MatchResult, len(snapshot))
	for i, p := range snapshot {
		results[i] = services.MatchResult{Product: p, Score: 1}
	}
	return results
}

func products(results []services.MatchResult) []model.Product {
	out := make([]model.Product, len(results))
	for i, r := range results {
		out[i] = r.Product
	}
	return out
}
