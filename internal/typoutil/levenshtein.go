package typoutil

import (
	"strings"
	"unicode/utf8"
)

// CalculateLevenshteinDistance computes the Levenshtein distance between two strings.
// It represents the minimum number of single-character edits (insertions, deletions, or substitutions)
// required to change one word into the other.
// This implementation properly handles Unicode characters by working with runes.
func CalculateLevenshteinDistance(a, b string) int {
	// Convert strings to rune slices to properly handle Unicode
	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	// matrix[i][j] is the distance between the first i runes of a and the first j runes of b.
	matrix := make([][]int, lenA+1)
	for i := range matrix {
		matrix[i] = make([]int, lenB+1)
	}

	for i := 0; i <= lenA; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= lenB; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			// Minimum of (deletion, insertion, substitution)
			deletion := matrix[i-1][j] + 1
			insertion := matrix[i][j-1] + 1
			substitution := matrix[i-1][j-1] + cost

			matrix[i][j] = min3(deletion, insertion, substitution)
		}
	}

	return matrix[lenA][lenB]
}

// WithinDistance reports whether the Levenshtein distance between a and b is at most maxDistance.
// It keeps two rows of the matrix and stops as soon as a whole row exceeds maxDistance,
// which makes dictionary and keyword scans cheap for the short words they deal with.
func WithinDistance(a, b string, maxDistance int) bool {
	if maxDistance < 0 {
		return false
	}

	runesA := []rune(a)
	runesB := []rune(b)

	lenA := len(runesA)
	lenB := len(runesB)

	// Early termination: if length difference > maxDistance, return early
	lengthDiff := lenA - lenB
	if lengthDiff < 0 {
		lengthDiff = -lengthDiff
	}
	if lengthDiff > maxDistance {
		return false
	}
	if lenA == 0 || lenB == 0 {
		return true // length difference already bounded above
	}

	prevRow := make([]int, lenB+1)
	currRow := make([]int, lenB+1)
	for j := 0; j <= lenB; j++ {
		prevRow[j] = j
	}

	for i := 1; i <= lenA; i++ {
		currRow[0] = i
		minInRow := i

		for j := 1; j <= lenB; j++ {
			cost := 0
			if runesA[i-1] != runesB[j-1] {
				cost = 1
			}

			currRow[j] = min3(prevRow[j]+1, currRow[j-1]+1, prevRow[j-1]+cost)
			if currRow[j] < minInRow {
				minInRow = currRow[j]
			}
		}

		if minInRow > maxDistance {
			return false
		}

		prevRow, currRow = currRow, prevRow
	}

	return prevRow[lenB] <= maxDistance
}

// Similarity returns a normalized, case-insensitive similarity score in [0, 1].
// Identical strings score 1, a comparison against an empty string scores 0,
// otherwise the score is 1 - distance / max(len(a), len(b)) measured in runes.
func Similarity(a, b string) float64 {
	lowerA := strings.ToLower(a)
	lowerB := strings.ToLower(b)

	if lowerA == lowerB {
		return 1
	}
	if lowerA == "" || lowerB == "" {
		return 0
	}

	maxLen := utf8.RuneCountInString(lowerA)
	if lenB := utf8.RuneCountInString(lowerB); lenB > maxLen {
		maxLen = lenB
	}

	distance := CalculateLevenshteinDistance(lowerA, lowerB)
	return 1 - float64(distance)/float64(maxLen)
}

// min3 is a helper function to find the minimum of three integers
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
