// Package lexicon holds the static brand, series and modifier tables used by the search engine.
//
// A Lexicon is built once and never mutated afterwards, so a single instance may be shared
// by any number of concurrent searches without locking.
package lexicon

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/pricewise/pricesearch/internal/textnorm"
)

// Tier groups modifier words by the product segment they signal.
type Tier string

const (
	// TierPremium marks flagship qualifiers (pro, ultra, ...).
	TierPremium Tier = "premium"
	// TierBudget marks entry-level qualifiers (lite, mini, ...).
	TierBudget Tier = "budget"
	// TierSpecial marks form-factor qualifiers (fold, flip, ...).
	TierSpecial Tier = "special"
)

// SeriesDef is the uncompiled form of a series pattern.
type SeriesDef struct {
	Tag     string
	Pattern string
}

// Tables is the raw lexicon content.
type Tables struct {
	// Brands maps a canonical brand key to its alias tokens.
	Brands map[string][]string
	// Series maps a canonical brand key to its ordered series patterns.
	Series map[string][]SeriesDef
	// Modifiers maps a tier to its qualifier words.
	Modifiers map[Tier][]string
}

// SeriesPattern is a compiled, brand-scoped series extraction rule.
type SeriesPattern struct {
	tag string
	re  *regexp.Regexp
}

// Tag returns the series identifier contributed by a match.
func (p SeriesPattern) Tag() string { return p.tag }

// FindAll returns the non-empty capture groups of every match in text.
// The bool result reports whether the pattern matched at all.
func (p SeriesPattern) FindAll(text string) ([]string, bool) {
	matches := p.re.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, false
	}
	var groups []string
	for _, m := range matches {
		for _, g := range m[1:] {
			if g != "" {
				groups = append(groups, g)
			}
		}
	}
	return groups, true
}

// Lexicon is the immutable lookup view over Tables.
type Lexicon struct {
	brands      []string
	aliases     map[string][]string
	canonicalOf map[string]string
	series      map[string][]SeriesPattern
	modifiers   []string
	tierOf      map[string]Tier
}

// New compiles tables into a Lexicon. Alias and modifier tokens are normalized.
func New(t Tables) (*Lexicon, error) {
	lex := &Lexicon{
		aliases:     make(map[string][]string, len(t.Brands)),
		canonicalOf: make(map[string]string),
		series:      make(map[string][]SeriesPattern, len(t.Series)),
		tierOf:      make(map[string]Tier),
	}

	for brand, aliases := range t.Brands {
		canonical := textnorm.Normalize(brand)
		if canonical == "" {
			return nil, fmt.Errorf("lexicon: empty brand key %q", brand)
		}
		seen := map[string]struct{}{canonical: {}}
		list := []string{canonical}
		for _, a := range aliases {
			na := textnorm.Normalize(a)
			if na == "" {
				continue
			}
			if _, dup := seen[na]; dup {
				continue
			}
			seen[na] = struct{}{}
			list = append(list, na)
		}
		for _, a := range list {
			if owner, taken := lex.canonicalOf[a]; taken && owner != canonical {
				return nil, fmt.Errorf("lexicon: alias %q claimed by %q and %q", a, owner, canonical)
			}
			lex.canonicalOf[a] = canonical
		}
		lex.aliases[canonical] = list
		lex.brands = append(lex.brands, canonical)
	}
	sort.Strings(lex.brands)

	for brand, defs := range t.Series {
		canonical := textnorm.Normalize(brand)
		if _, ok := lex.aliases[canonical]; !ok {
			return nil, fmt.Errorf("lexicon: series for unknown brand %q", brand)
		}
		patterns := make([]SeriesPattern, 0, len(defs))
		for _, d := range defs {
			re, err := regexp.Compile(d.Pattern)
			if err != nil {
				return nil, fmt.Errorf("lexicon: series %q of %q: %w", d.Tag, brand, err)
			}
			patterns = append(patterns, SeriesPattern{tag: d.Tag, re: re})
		}
		lex.series[canonical] = patterns
	}

	for tier, words := range t.Modifiers {
		for _, w := range words {
			nw := textnorm.Normalize(w)
			if nw == "" {
				continue
			}
			if _, dup := lex.tierOf[nw]; !dup {
				lex.modifiers = append(lex.modifiers, nw)
			}
			lex.tierOf[nw] = tier
		}
	}
	sort.Strings(lex.modifiers)

	return lex, nil
}

// Brands returns the canonical brand keys in ascending order.
func (l *Lexicon) Brands() []string { return l.brands }

// Aliases returns the alias tokens of a canonical brand, the canonical key first.
func (l *Lexicon) Aliases(brand string) []string { return l.aliases[brand] }

// Canonical resolves a brand key or alias to its canonical brand.
func (l *Lexicon) Canonical(token string) (string, bool) {
	c, ok := l.canonicalOf[textnorm.Normalize(token)]
	return c, ok
}

// SeriesPatterns returns the series patterns scoped to a canonical brand.
func (l *Lexicon) SeriesPatterns(brand string) []SeriesPattern { return l.series[brand] }

// Modifiers returns every modifier word across all tiers, sorted.
func (l *Lexicon) Modifiers() []string { return l.modifiers }

// Tier returns the tier of a modifier word.
func (l *Lexicon) Tier(modifier string) (Tier, bool) {
	t, ok := l.tierOf[modifier]
	return t, ok
}
