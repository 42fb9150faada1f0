package tokenizer

import (
	"regexp"
	"strings"
)

// separatorRegex matches runs of characters that delimit words in a query or a product field.
var separatorRegex = regexp.MustCompile(`[\s\-_,.]+`)

// wordBoundaryRegex matches the narrower set of word boundaries used for prefix checks.
// Commas and periods are deliberately not boundaries here.
var wordBoundaryRegex = regexp.MustCompile(`[\s\-_]+`)

// Normalize lowercases and trims a string.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Tokenize converts a string into a slice of lowercase tokens.
// It splits on any run of whitespace, hyphens, underscores, commas or periods.
// No stemming or stop-word removal is performed.
func Tokenize(text string) []string {
	return splitNonEmpty(separatorRegex, strings.ToLower(text))
}

// WordBoundaries splits a string on whitespace, hyphens and underscores only,
// lowercasing it first. Used for word-prefix matching.
func WordBoundaries(text string) []string {
	return splitNonEmpty(wordBoundaryRegex, strings.ToLower(text))
}

func splitNonEmpty(re *regexp.Regexp, text string) []string {
	split := re.Split(text, -1)

	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for _, s := range split {
		if s != "" { // Filter out empty strings
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// wordRegex matches the words Tokenize would produce, in the original text.
var wordRegex = regexp.MustCompile(`[^\s\-_,.]+`)

// WordSpan is the half-open byte range [Start, End) of a word in the original text.
type WordSpan struct {
	Start int
	End   int
}

// WordSpans returns the byte ranges of the words Tokenize would produce for text,
// measured in text itself rather than in its lowercased form.
func WordSpans(text string) []WordSpan {
	matches := wordRegex.FindAllStringIndex(text, -1)
	spans := make([]WordSpan, 0, len(matches))
	for _, m := range matches {
		spans = append(spans, WordSpan{Start: m[0], End: m[1]})
	}
	return spans
}
