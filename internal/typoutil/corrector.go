package typoutil

import (
	"strings"
)

// Correction maps a known misspelling to its canonical spelling.
type Correction struct {
	Misspelling string `json:"misspelling" yaml:"misspelling"`
	Canonical   string `json:"canonical" yaml:"canonical"`
}

// defaultCorrections is the apparel vocabulary used by the storefront.
// Order matters: the fuzzy fallback returns the first entry within one edit.
var defaultCorrections = []Correction{
	// Shirts
	{"shalrt", "shirt"},
	{"shurt", "shirt"},
	{"shurts", "shirt"},
	{"shirtz", "shirt"},
	{"schirt", "shirt"},
	{"shrit", "shirt"},
	{"shirst", "shirt"},
	// Pants
	{"pnats", "pants"},
	{"patns", "pants"},
	{"pents", "pants"},
	{"pantz", "pants"},
	// Dress
	{"dres", "dress"},
	{"dresse", "dress"},
	{"drss", "dress"},
	// Jacket
	{"jackt", "jacket"},
	{"jaket", "jacket"},
	{"jakcet", "jacket"},
	// Shoes
	{"sheos", "shoes"},
	{"shoez", "shoes"},
	{"shose", "shoes"},
	// Jeans
	{"jeens", "jeans"},
	{"jenas", "jeans"},
	{"jeanz", "jeans"},
	// Sneakers
	{"sneekers", "sneakers"},
	{"snakers", "sneakers"},
	{"sneeker", "sneaker"},
	// T-shirt
	{"tshirt", "t-shirt"},
	{"teeshirt", "t-shirt"},
	{"tee shirt", "t-shirt"},
	// Accessories
	{"accesories", "accessories"},
	{"acessories", "accessories"},
	{"accessoris", "accessories"},
	// Common clothing terms
	{"cloths", "clothes"},
	{"clothig", "clothing"},
	{"cloting", "clothing"},
	{"sweter", "sweater"},
	{"sweater", "sweater"},
	{"hoddie", "hoodie"},
	{"hoody", "hoodie"},
	{"blaser", "blazer"},
	{"trousrs", "trousers"},
	{"trosers", "trousers"},
}

// maxCorrectionDistance is the edit distance tolerated by the dictionary fallback.
const maxCorrectionDistance = 1

// Corrector rewrites query words using a fixed misspelling table.
// It is read-only after construction and safe for concurrent use.
type Corrector struct {
	entries []Correction
	exact   map[string]string
}

// NewCorrector creates a Corrector over the given table. Keys are lowercased;
// when a misspelling appears twice the first entry wins, matching the scan order.
func NewCorrector(entries []Correction) *Corrector {
	c := &Corrector{
		entries: make([]Correction, 0, len(entries)),
		exact:   make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		key := strings.ToLower(e.Misspelling)
		if key == "" {
			continue
		}
		if _, dup := c.exact[key]; dup {
			continue
		}
		c.exact[key] = e.Canonical
		c.entries = append(c.entries, Correction{Misspelling: key, Canonical: e.Canonical})
	}
	return c
}

var defaultCorrector = NewCorrector(defaultCorrections)

// DefaultCorrector returns the Corrector built from the storefront vocabulary.
func DefaultCorrector() *Corrector {
	return defaultCorrector
}

// Correct rewrites query with the default vocabulary. See Corrector.Correct.
func Correct(query string) string {
	return defaultCorrector.Correct(query)
}

// Entries returns a copy of the table in scan order.
func (c *Corrector) Entries() []Correction {
	out := make([]Correction, len(c.entries))
	copy(out, c.entries)
	return out
}

// CorrectWord returns the canonical spelling for a single lowercase word.
// An exact key wins; otherwise the first table entry within one edit is used.
// The second return value reports whether the table matched at all.
func (c *Corrector) CorrectWord(word string) (string, bool) {
	if canonical, ok := c.exact[word]; ok {
		return canonical, true
	}
	// First match, not best match: the table order decides ties and near misses alike.
	for _, e := range c.entries {
		if WithinDistance(word, e.Misspelling, maxCorrectionDistance) {
			return e.Canonical, true
		}
	}
	return word, false
}

// Correct lowercases the query, splits it on whitespace, corrects every word
// and joins the result with single spaces. Words without a match pass through unchanged.
// Callers compare the result with the trimmed lowercase query to detect a correction.
func (c *Corrector) Correct(query string) string {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return ""
	}

	corrected := make([]string, len(words))
	for i, word := range words {
		corrected[i], _ = c.CorrectWord(word)
	}
	return strings.Join(corrected, " ")
}
