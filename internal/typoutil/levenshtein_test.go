package typoutil

import (
	"math"
	"testing"
)

func TestCalculateLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{"both empty", "", "", 0},
		{"a empty", "", "hello", 5},
		{"b empty", "hello", "", 5},
		{"identical", "hello", "hello", 0},
		{"simple substitution", "kitten", "sitten", 1},
		{"simple insertion", "jaket", "jacket", 1},
		{"simple deletion", "banana", "banna", 1},
		{"multiple edits", "saturday", "sunday", 3},
		{"transposition costs two", "shrit", "shirt", 2},
		{"longer strings", "algorithm", "altruistic", 6},
		{"unicode chars (same len)", "cliché", "cliche", 1}, // é -> e is 1 substitution
		{"unicode chars (diff len)", "résumé", "resume", 2}, // é -> e twice is 2 substitutions
		{"case sensitive", "Jacket", "jacket", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateLevenshteinDistance(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("CalculateLevenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCalculateLevenshteinDistance_Symmetric(t *testing.T) {
	words := []string{"", "a", "jaket", "jacket", "red jacket", "blue jeans", "shoes", "sheos", "résumé", "xyzxyz"}
	for _, a := range words {
		for _, b := range words {
			ab := CalculateLevenshteinDistance(a, b)
			ba := CalculateLevenshteinDistance(b, a)
			if ab != ba {
				t.Errorf("distance(%q, %q) = %d but distance(%q, %q) = %d", a, b, ab, b, a, ba)
			}
		}
	}
}

func TestWithinDistance(t *testing.T) {
	tests := []struct {
		name        string
		a           string
		b           string
		maxDistance int
		want        bool
	}{
		{"identical", "shirt", "shirt", 0, true},
		{"one substitution", "shurt", "shirt", 1, true},
		{"two edits over limit", "shrit", "shirt", 1, false},
		{"two edits within limit", "shrit", "shirt", 2, true},
		{"length gap too large", "men", "accessory", 2, false},
		{"empty within limit", "", "ab", 2, true},
		{"empty over limit", "", "abc", 2, false},
		{"negative limit", "a", "a", -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WithinDistance(tt.a, tt.b, tt.maxDistance)
			if got != tt.want {
				t.Errorf("WithinDistance(%q, %q, %d) = %v, want %v", tt.a, tt.b, tt.maxDistance, got, tt.want)
			}
		})
	}
}

func TestWithinDistance_AgreesWithFullMatrix(t *testing.T) {
	words := []string{"", "men", "women", "shoe", "shoes", "jacket", "jaket", "dress", "pants", "accessory", "xyzxyz"}
	for _, a := range words {
		for _, b := range words {
			d := CalculateLevenshteinDistance(a, b)
			for limit := 0; limit <= 3; limit++ {
				if got, want := WithinDistance(a, b, limit), d <= limit; got != want {
					t.Errorf("WithinDistance(%q, %q, %d) = %v, full distance is %d", a, b, limit, got, d)
				}
			}
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "jacket", "jacket", 1},
		{"case insensitive identical", "Jacket", "JACKET", 1},
		{"both empty", "", "", 1},
		{"a empty", "", "jacket", 0},
		{"b empty", "jacket", "", 0},
		{"one edit in six", "jaket", "jacket", 1 - 1.0/6},
		{"completely different", "abc", "xyz", 0},
		{"unicode length in runes", "résumé", "resume", 1 - 2.0/6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	words := []string{"", "a", "jaket", "red jacket", "blue jeans", "Blue Denim Jacket", "xyzxyz", "ÄÖÜ"}
	for _, a := range words {
		if a != "" && Similarity(a, a) != 1 {
			t.Errorf("Similarity(%q, %q) should be 1", a, a)
		}
		if a != "" && Similarity(a, "") != 0 {
			t.Errorf("Similarity(%q, \"\") should be 0", a)
		}
		for _, b := range words {
			s := Similarity(a, b)
			if math.IsNaN(s) || s < 0 || s > 1 {
				t.Errorf("Similarity(%q, %q) = %v, want value in [0, 1]", a, b, s)
			}
		}
	}
}
