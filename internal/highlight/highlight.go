// Package highlight splits display text into highlighted and plain spans.
//
// Every function in this package preserves the round-trip property: concatenating
// the Text of the returned spans reproduces the input text byte for byte.
package highlight

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Span is a contiguous piece of the original text.
type Span struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// Range is a half-open [Start, End) byte range into a string.
// It is encoded in JSON as a two element array, e.g. [5, 10].
type Range struct {
	Start int
	End   int
}

// MarshalJSON encodes the range as [start, end].
func (r Range) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Start, r.End})
}

// UnmarshalJSON accepts [start, end] or {"start":..,"end":..}.
func (r *Range) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("range must have exactly 2 elements, got %d", len(pair))
		}
		r.Start, r.End = pair[0], pair[1]
		return nil
	}

	var obj struct {
		Start int `json:"start"`
		End   int `json:"end"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("range must be [start, end] or {\"start\", \"end\"}: %w", err)
	}
	r.Start, r.End = obj.Start, obj.End
	return nil
}

// Text highlights every case-insensitive, non-overlapping occurrence of query in text,
// scanning left to right. Case in the returned spans is preserved from text.
func Text(text, query string) []Span {
	if text == "" {
		return []Span{{Text: ""}}
	}
	return partition(text, FindAll(text, query))
}

// Ranges highlights the given byte ranges of text. Ranges are clamped to the text,
// sorted, and merged when they overlap or touch before the text is partitioned.
func Ranges(text string, ranges []Range) []Span {
	if text == "" {
		return []Span{{Text: ""}}
	}
	return partition(text, Merge(ranges, len(text)))
}

// FindAll returns the byte ranges of all case-insensitive, non-overlapping
// occurrences of query in text. An empty query matches nothing.
func FindAll(text, query string) []Range {
	if text == "" || query == "" {
		return nil
	}

	folded, offsets := foldWithOffsets(text)
	needle := strings.Map(unicode.ToLower, query)
	if needle == "" {
		return nil
	}

	var ranges []Range
	from := 0
	for from <= len(folded)-len(needle) {
		idx := strings.Index(folded[from:], needle)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(needle)
		ranges = append(ranges, Range{Start: offsets[start], End: offsets[end]})
		from = end
	}
	return ranges
}

// Merge clamps ranges to [0, limit], drops empty ones, sorts them by start and
// merges any that overlap or touch. The input slice is not modified.
func Merge(ranges []Range, limit int) []Range {
	cleaned := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.Start < 0 {
			r.Start = 0
		}
		if r.End > limit {
			r.End = limit
		}
		if r.Start >= r.End {
			continue
		}
		cleaned = append(cleaned, r)
	}

	sort.SliceStable(cleaned, func(i, j int) bool {
		return cleaned[i].Start < cleaned[j].Start
	})

	merged := make([]Range, 0, len(cleaned))
	for _, r := range cleaned {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End {
			if r.End > merged[n-1].End {
				merged[n-1].End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// partition expects sorted, disjoint ranges within text.
func partition(text string, ranges []Range) []Span {
	if len(ranges) == 0 {
		return []Span{{Text: text}}
	}

	spans := make([]Span, 0, 2*len(ranges)+1)
	last := 0
	for _, r := range ranges {
		if r.Start > last {
			spans = append(spans, Span{Text: text[last:r.Start]})
		}
		spans = append(spans, Span{Text: text[r.Start:r.End], Highlighted: true})
		last = r.End
	}
	if last < len(text) {
		spans = append(spans, Span{Text: text[last:]})
	}
	return spans
}

// foldWithOffsets lowercases text rune by rune and records, for every byte of the
// folded string, the byte offset of the originating rune in text. The final entry
// maps len(folded) to len(text). Lowercasing can change a rune's encoded width, so
// indexes found in the folded string must be translated through this table.
func foldWithOffsets(text string) (string, []int) {
	var b strings.Builder
	b.Grow(len(text))
	offsets := make([]int, 0, len(text)+1)

	for i, r := range text {
		lower := unicode.ToLower(r)
		b.WriteRune(lower)
		for k := 0; k < utf8.RuneLen(lower); k++ {
			offsets = append(offsets, i)
		}
	}
	offsets = append(offsets, len(text))
	return b.String(), offsets
}
