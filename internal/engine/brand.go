package engine

import (
	"github.com/pricewise/pricesearch/internal/textnorm"
)

// ScoreBrand scores a catalog brand against the brands detected in the query.
// It is 0 when the query names no brand and 1 when the candidate is a detected brand or
// one of its aliases. Otherwise it is the best edit-distance ratio to a detected brand.
func (e *Engine) ScoreBrand(c Components, brand string) float64 {
	if len(c.Brands) == 0 {
		return 0
	}
	candidate := textnorm.Normalize(brand)
	if candidate == "" {
		return 0
	}

	best := 0.0
	for _, detected := range c.Brands.Sorted() {
		if candidate == detected {
			return 1
		}
		for _, alias := range e.lex.Aliases(detected) {
			if candidate == alias {
				return 1
			}
		}
		if r := levenshteinRatio(detected, candidate); r > best {
			best = r
		}
	}
	return clamp(best)
}
