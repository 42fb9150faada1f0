package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/go-product-search/internal/highlight"
)

func TestPartialMatch(t *testing.T) {
	tests := []struct {
		name  string
		field string
		query string
		want  float64
	}{
		{"equal", "Jacket", "jacket", 1.0},
		{"prefix", "Jacket Red", "jack", 0.9},
		{"substring", "Red Jacket", "d jac", 0.7},
		{"word prefix beats nothing", "red-jacket", "jack", 0.7}, // substring is checked first
		{"no match", "Red Jacket", "jeans", 0},
		{"empty query against text", "Red Jacket", "", 0},
		{"both empty", "", "", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PartialMatch(tt.field, tt.query), 1e-9)
		})
	}
}

func TestFieldScore(t *testing.T) {
	tests := []struct {
		name  string
		field string
		query string
		want  float64
	}{
		{"empty field", "", "jacket", 0},
		{"empty query", "Red Jacket", "", 0},
		{"whitespace query", "Red Jacket", "   ", 0},
		{"equal after trim and case", "  Red Jacket ", "red jacket", 1.0},
		{"substring", "Red Jacket", "jacket", 0.9},
		{"single typo uses word score", "Red Jacket", "jaket", (1 - 1.0/6) * 0.9},
		{"nothing in common", "abc", "xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, FieldScore(tt.field, tt.query), 1e-9)
		})
	}
}

func TestFieldScore_MultiWordPartialQuery(t *testing.T) {
	// Neither "blu" nor "jean" is a substring of the other word, but each is a
	// prefix of a field word, so the word score averages two 0.9 partial matches.
	got := FieldScore("Blue Slim Jeans", "blu jean")
	assert.InDelta(t, 0.9*0.9, got, 1e-9)
}

func TestFieldScore_Bounds(t *testing.T) {
	fields := []string{"", "Red Jacket", "Blue Jeans", "Blue Denim Jacket", "t-shirt", "ÄÖÜ", "a"}
	queries := []string{"", "jaket", "jacket", "blue", "xyzxyz", "shirt t", "äöü", "a b c d"}

	for _, f := range fields {
		for _, q := range queries {
			s := FieldScore(f, q)
			if math.IsNaN(s) || s < 0 || s > 1 {
				t.Errorf("FieldScore(%q, %q) = %v, want value in [0, 1]", f, q, s)
			}
		}
	}
}

func TestWordScore(t *testing.T) {
	assert.Equal(t, 0.0, WordScore("", "jacket"))
	assert.Equal(t, 0.0, WordScore("red jacket", " - "))
	assert.InDelta(t, 1.0, WordScore("red jacket", "jacket red"), 1e-9)
	// "red" matches exactly, "xyz" matches nothing: the average is 0.5.
	assert.InDelta(t, 0.5, WordScore("red jacket", "red xyz"), 1e-9)
}

func TestMatchSpans(t *testing.T) {
	tests := []struct {
		name  string
		field string
		query string
		want  []highlight.Range
	}{
		{"empty query", "Red Jacket", "", nil},
		{"empty field", "", "jacket", nil},
		{"literal occurrence", "Red Jacket", "jacket", []highlight.Range{{Start: 4, End: 10}}},
		{"tokens highlighted separately", "Red Wool Jacket", "red jacket", []highlight.Range{{Start: 0, End: 3}, {Start: 9, End: 15}}},
		{"fuzzy word", "Red Jacket", "jaket", []highlight.Range{{Start: 4, End: 10}}},
		{"no plausible word", "Red Jacket", "xyzxyz", nil},
		{"query is trimmed", "Red Jacket", "red ", []highlight.Range{{Start: 0, End: 3}}},
		{"overlapping token and phrase merge", "Red Jacket", "red jac", []highlight.Range{{Start: 0, End: 7}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchSpans(tt.field, tt.query))
		})
	}
}
