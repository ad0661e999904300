package engine

import (
	"sort"
	"strings"

	"github.com/pricewise/pricesearch/internal/domain/catalog"
	"github.com/pricewise/pricesearch/internal/textnorm"
)

// maxNumberDigits bounds standalone numbers; longer runs are not model-like.
const maxNumberDigits = 3

// Set is an unordered set of normalized tokens.
type Set map[string]struct{}

// Has reports whether k is in the set.
func (s Set) Has(k string) bool {
	_, ok := s[k]
	return ok
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s Set) intersects(o Set) bool {
	for k := range s {
		if o.Has(k) {
			return true
		}
	}
	return false
}

// Components are the entities extracted from one query.
type Components struct {
	Normalized  string
	Brands      Set
	Series      Set
	ModelTokens []string
	Numbers     Set
	Modifiers   Set
}

func newComponents(normalized string) Components {
	return Components{
		Normalized: normalized,
		Brands:     Set{},
		Series:     Set{},
		Numbers:    Set{},
		Modifiers:  Set{},
	}
}

// Extract normalizes the query and pulls out brands, series, model tokens, numbers
// and modifiers. An empty query yields empty components.
func (e *Engine) Extract(query string) Components {
	c := newComponents(textnorm.Normalize(query))
	if c.Normalized == "" {
		return c
	}

	for _, brand := range e.lex.Brands() {
		for _, alias := range e.lex.Aliases(brand) {
			if strings.Contains(c.Normalized, alias) {
				c.Brands[brand] = struct{}{}
				break
			}
		}
	}

	seen := map[string]struct{}{}
	for _, brand := range c.Brands.Sorted() {
		for _, p := range e.lex.SeriesPatterns(brand) {
			groups, ok := p.FindAll(c.Normalized)
			if !ok {
				continue
			}
			c.Series[p.Tag()] = struct{}{}
			for _, g := range groups {
				if _, dup := seen[g]; dup {
					continue
				}
				seen[g] = struct{}{}
				c.ModelTokens = append(c.ModelTokens, g)
			}
		}
	}

	c.Numbers = numbers(c.Normalized)

	for _, m := range e.lex.Modifiers() {
		if strings.Contains(c.Normalized, m) {
			c.Modifiers[m] = struct{}{}
		}
	}
	return c
}

// detectCatalogBrands adds snapshot brands unknown to the lexicon that appear as whole
// words in the query. They alias only themselves.
func (e *Engine) detectCatalogBrands(c *Components, snap catalog.Snapshot) {
	if c.Normalized == "" {
		return
	}
	padded := " " + c.Normalized + " "
	for _, entry := range snap.Entries() {
		key := textnorm.Normalize(entry.Brand())
		if key == "" || c.Brands.Has(key) {
			continue
		}
		if _, known := e.lex.Canonical(key); known {
			continue
		}
		if strings.Contains(padded, " "+key+" ") {
			c.Brands[key] = struct{}{}
		}
	}
}

func numbers(normalized string) Set {
	out := Set{}
	for _, run := range textnorm.DigitRuns(normalized) {
		if len(run) <= maxNumberDigits {
			out[run] = struct{}{}
		}
	}
	return out
}
