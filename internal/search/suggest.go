package search

import (
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/gcbaptista/go-product-search/config"
	"github.com/gcbaptista/go-product-search/internal/tokenizer"
	"github.com/gcbaptista/go-product-search/internal/typoutil"
	"github.com/gcbaptista/go-product-search/model"
	"github.com/gcbaptista/go-product-search/services"
)

// categoryKeywords are tried in order; the first one the query mentions wins.
var categoryKeywords = []string{"men", "women", "shirt", "pants", "dress", "shoe", "jacket", "accessory"}

// maxKeywordDistance is how far a whole query may be from a category keyword and still name it.
const maxKeywordDistance = 2

// Suggester proposes "similar products" when a search comes back empty or sparse.
// It is safe for concurrent use.
type Suggester struct {
	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewSuggester creates a Suggester drawing random samples from rng.
// A nil rng uses a randomly seeded source.
func NewSuggester(rng *rand.Rand) *Suggester {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Suggester{rng: rng}
}

// Suggest returns up to limit products related to query. See SuggestWithStrategy.
func (s *Suggester) Suggest(snapshot []model.Product, query string, limit int) []model.Product {
	suggestions, _ := s.SuggestWithStrategy(snapshot, query, limit)
	return suggestions
}

// SuggestWithStrategy returns up to limit products related to query and the
// fallback step that produced them. Steps, first non-empty wins:
//
//  1. blank query: random sample of the snapshot
//  2. very permissive, location-agnostic match: the best matches
//  3. query names a category keyword: random sample of products whose
//     category or name contains the keyword
//  4. random sample of the snapshot
//
// snapshot is never reordered.
func (s *Suggester) SuggestWithStrategy(snapshot []model.Product, query string, limit int) ([]model.Product, services.SuggestStrategy) {
	if limit <= 0 || len(snapshot) == 0 {
		return []model.Product{}, services.SuggestNone
	}

	q := tokenizer.Normalize(query)
	if q == "" {
		return s.sample(snapshot, limit), services.SuggestRandom
	}

	opts := config.DefaultSearchOptions().WithThreshold(config.SuggestionThreshold)
	opts.IgnoreLocation = true
	if matches := Rank(snapshot, q, opts); len(matches) > 0 {
		if len(matches) > limit {
			matches = matches[:limit]
		}
		return products(matches), services.SuggestRelaxed
	}

	if keyword := categoryKeyword(q); keyword != "" {
		if related := productsMentioning(snapshot, keyword); len(related) > 0 {
			return s.sample(related, limit), services.SuggestCategory
		}
	}

	return s.sample(snapshot, limit), services.SuggestRandom
}

// sample returns up to n distinct products from a shuffled copy of candidates.
func (s *Suggester) sample(candidates []model.Product, n int) []model.Product {
	shuffled := make([]model.Product, len(candidates))
	copy(shuffled, candidates)

	s.mu.Lock()
	s.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	s.mu.Unlock()

	if n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}

// categoryKeyword returns the first category keyword contained in the query,
// or within maxKeywordDistance edits of the whole query; "" when none is.
func categoryKeyword(query string) string {
	for _, kw := range categoryKeywords {
		if strings.Contains(query, kw) || typoutil.WithinDistance(query, kw, maxKeywordDistance) {
			return kw
		}
	}
	return ""
}

func productsMentioning(snapshot []model.Product, keyword string) []model.Product {
	var related []model.Product
	for _, p := range snapshot {
		if strings.Contains(strings.ToLower(p.ResolvedCategoryName()), keyword) ||
			strings.Contains(strings.ToLower(p.Name), keyword) {
			related = append(related, p)
		}
	}
	return related
}

// ExcludeIDs returns the products of snapshot whose ID is not in ids, in order.
func ExcludeIDs(snapshot []model.Product, ids []int) []model.Product {
	if len(ids) == 0 {
		return snapshot
	}
	excluded := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		excluded[id] = struct{}{}
	}

	kept := make([]model.Product, 0, len(snapshot))
	for _, p := range snapshot {
		if _, skip := excluded[p.ID]; !skip {
			kept = append(kept, p)
		}
	}
	return kept
}

// ResultIDs returns the product IDs of results, in order.
func ResultIDs(results []services.MatchResult) []int {
	ids := make([]int, len(results))
	for i, r := range results {
		ids[i] = r.Product.ID
	}
	return ids
}
