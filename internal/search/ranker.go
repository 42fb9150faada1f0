package search

import (
	"sort"

	"github.com/gcbaptista/go-product-search/config"
	"github.com/gcbaptista/go-product-search/internal/highlight"
	"github.com/gcbaptista/go-product-search/internal/scoring"
	"github.com/gcbaptista/go-product-search/model"
	"github.com/gcbaptista/go-product-search/services"
)

// thresholdEpsilon absorbs float rounding in 1 - score <= threshold.
const thresholdEpsilon = 1e-9

// fieldHit is a scored field of a candidate product.
type fieldHit struct {
	name  string
	value string
}

// candidate represents a product during ranking
type candidate struct {
	index int
	raw   float64 // weighted sum relative to the heaviest counting weight, uncapped
	hits  []fieldHit
}

// Rank scores every product of snapshot against query and returns the ones
// passing opts.Threshold, best first. Ties keep snapshot order.
//
// A field counts towards a product's score only when its own score passes the
// threshold. Counting field scores are weighted and summed, so a product
// matching in several fields outranks one matching in a single field. The sum
// is expressed relative to the heaviest counting weight: a product matching in
// one field scores that field's score, whatever its weight. Products are
// ordered by this sum; the reported Score is capped at 1. A product is kept
// when at least one field counts.
//
// Scoring does not depend on where in a field the query occurs, so
// opts.IgnoreLocation does not change the result.
func Rank(snapshot []model.Product, query string, opts config.SearchOptions) []services.MatchResult {
	if opts.MaxWeight() <= 0 || len(snapshot) == 0 {
		return []services.MatchResult{}
	}

	candidates := make([]candidate, 0)
	for i, product := range snapshot {
		c := candidate{index: i}
		total, heaviest := 0.0, 0.0
		for _, field := range product.SearchableFields() {
			weight := opts.FieldWeights[field.Name]
			if weight <= 0 {
				continue
			}
			s := scoring.FieldScore(field.Value, query)
			if s <= 0 || !passes(s, opts.Threshold) {
				continue
			}
			total += s * weight
			heaviest = max(heaviest, weight)
			c.hits = append(c.hits, fieldHit{name: field.Name, value: field.Value})
		}

		if heaviest == 0 {
			continue
		}
		c.raw = total / heaviest
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].raw > candidates[j].raw
	})

	results := make([]services.MatchResult, len(candidates))
	for i, c := range candidates {
		results[i] = services.MatchResult{
			Product:           snapshot[c.index],
			Score:             min(c.raw, 1),
			MatchedFieldSpans: matchedSpans(c.hits, query),
		}
	}
	return results
}

// passes reports whether score is within threshold of a perfect match.
func passes(score, threshold float64) bool {
	return 1-score <= threshold+thresholdEpsilon
}

func matchedSpans(hits []fieldHit, query string) map[string][]highlight.Range {
	var spans map[string][]highlight.Range
	for _, h := range hits {
		ranges := scoring.MatchSpans(h.value, query)
		if len(ranges) == 0 {
			continue
		}
		if spans == nil {
			spans = make(map[string][]highlight.Range)
		}
		spans[h.name] = ranges
	}
	return spans
}
