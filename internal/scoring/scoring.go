// Package scoring scores a single text field against a query string.
//
// Scores are in [0, 1], where 1 is a perfect match. The scorer blends several
// strategies so that single-word typos, partial multi-word queries and near-miss
// phrases are each caught by at least one of them.
package scoring

import (
	"strings"

	"github.com/gcbaptista/go-product-search/internal/highlight"
	"github.com/gcbaptista/go-product-search/internal/tokenizer"
	"github.com/gcbaptista/go-product-search/internal/typoutil"
)

// Partial match scores, in priority order.
const (
	scoreEqual         = 1.0
	scorePrefix        = 0.9
	scoreWordPrefix    = 0.8
	scoreSubstring     = 0.7
	scoreFieldContains = 0.9
)

// Strategy multipliers applied by FieldScore.
const (
	similarityFactor = 0.8
	wordMatchFactor  = 0.9
)

// minSpanWordScore is the word score a fuzzy-matched field word needs before it is reported as a span.
const minSpanWordScore = 0.5

// PartialMatch scores how field relates to query by containment alone.
// Case-insensitive. Returns 1.0 if equal, 0.9 if field starts with query,
// 0.7 if field contains query, 0.8 if a whitespace/hyphen/underscore delimited
// word of field starts with query, otherwise 0. An empty query only matches an empty field.
func PartialMatch(field, query string) float64 {
	w := strings.ToLower(field)
	q := strings.ToLower(query)

	if w == q {
		return scoreEqual
	}
	if q == "" {
		return 0
	}
	if strings.HasPrefix(w, q) {
		return scorePrefix
	}
	if strings.Contains(w, q) {
		return scoreSubstring
	}

	for _, part := range tokenizer.WordBoundaries(w) {
		if strings.HasPrefix(part, q) {
			return scoreWordPrefix
		}
	}
	return 0
}

// FieldScore scores field against query. Returns 0 when either is empty after
// trimming, 1 when they are equal ignoring case, 0.9 when field contains query,
// and otherwise the best of the partial match, 0.8 times whole-string similarity,
// and 0.9 times the word-level score.
func FieldScore(field, query string) float64 {
	t := tokenizer.Normalize(field)
	q := tokenizer.Normalize(query)

	if t == "" || q == "" {
		return 0
	}
	if t == q {
		return scoreEqual
	}
	if strings.Contains(t, q) {
		return scoreFieldContains
	}

	partialScore := PartialMatch(t, q)
	similarityScore := typoutil.Similarity(t, q) * similarityFactor
	wordScore := WordScore(t, q) * wordMatchFactor

	return max(partialScore, similarityScore, wordScore)
}

// WordScore averages, over the query tokens, the best similarity or partial match
// each token achieves against any token of field. Returns 0 when either side has no tokens.
func WordScore(field, query string) float64 {
	fieldWords := tokenizer.Tokenize(field)
	queryWords := tokenizer.Tokenize(query)
	if len(fieldWords) == 0 || len(queryWords) == 0 {
		return 0
	}

	total := 0.0
	for _, qw := range queryWords {
		_, best := bestWord(fieldWords, qw)
		total += best
	}
	return total / float64(len(queryWords))
}

// bestWord returns the index and score of the field word that best matches queryWord.
func bestWord(fieldWords []string, queryWord string) (int, float64) {
	bestIdx, best := -1, 0.0
	for i, fw := range fieldWords {
		s := max(typoutil.Similarity(fw, queryWord), PartialMatch(fw, queryWord))
		if s > best {
			bestIdx, best = i, s
		}
	}
	return bestIdx, best
}

// MatchSpans returns the byte ranges of field that explain its score against query:
// every case-insensitive occurrence of the whole query and of each query token, and,
// for tokens with no literal occurrence, the field word that fuzzy-matches the token best.
// The result is sorted and merged; nil when nothing matched.
func MatchSpans(field, query string) []highlight.Range {
	q := strings.TrimSpace(query)
	if field == "" || q == "" {
		return nil
	}

	ranges := highlight.FindAll(field, q)

	words := tokenizer.WordSpans(field)
	fieldWords := make([]string, len(words))
	for i, w := range words {
		fieldWords[i] = strings.ToLower(field[w.Start:w.End])
	}

	seen := make(map[string]struct{})
	for _, token := range tokenizer.Tokenize(q) {
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}

		if occurrences := highlight.FindAll(field, token); len(occurrences) > 0 {
			ranges = append(ranges, occurrences...)
			continue
		}
		if idx, score := bestWord(fieldWords, token); idx >= 0 && score >= minSpanWordScore {
			ranges = append(ranges, highlight.Range{Start: words[idx].Start, End: words[idx].End})
		}
	}

	merged := highlight.Merge(ranges, len(field))
	if len(merged) == 0 {
		return nil
	}
	return merged
}
