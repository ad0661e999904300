package engine

import (
	"strconv"
	"strings"

	"github.com/pricewise/pricesearch/internal/textnorm"
)

// Model sub-score weights. They sum to 1 and are never renormalized.
const (
	weightToken    = 0.40
	weightNumeric  = 0.35
	weightSeries   = 0.15
	weightModifier = 0.10

	tokenOverlapScore  = 0.8
	adjacentGeneration = 0.7
)

// profile is what the candidate (brand, model) pair yields under the same extraction rules.
type profile struct {
	tokens  []string
	series  Set
	numbers Set
}

func (e *Engine) candidateProfile(brand, model string) profile {
	text := textnorm.Normalize(brand + " " + model)
	p := profile{series: Set{}, numbers: numbers(text)}

	canonical, ok := e.lex.Canonical(brand)
	if !ok {
		return p
	}
	for _, sp := range e.lex.SeriesPatterns(canonical) {
		groups, matched := sp.FindAll(text)
		if !matched {
			continue
		}
		p.series[sp.Tag()] = struct{}{}
		p.tokens = append(p.tokens, groups...)
	}
	return p
}

// ScoreModel scores a catalog (brand, model) pair against the query components as the
// weighted sum of token, numeric, series and modifier agreement.
func (e *Engine) ScoreModel(c Components, brand, model string) float64 {
	name := textnorm.Normalize(model)
	if name == "" {
		return 0
	}
	cand := e.candidateProfile(brand, model)

	score := weightToken*tokenScore(c.ModelTokens, name, cand.tokens) +
		weightNumeric*numericScore(c.Numbers, name, cand.numbers) +
		weightSeries*seriesScore(c.Series, cand.series) +
		weightModifier*modifierScore(c.Modifiers, name)
	return clamp(score)
}

func tokenScore(tokens []string, name string, candTokens []string) float64 {
	best := 0.0
	for _, t := range tokens {
		if strings.Contains(name, t) {
			return 1
		}
		for _, ct := range candTokens {
			if strings.Contains(ct, t) || strings.Contains(t, ct) {
				best = tokenOverlapScore
			}
		}
	}
	return best
}

func numericScore(nums Set, name string, candNums Set) float64 {
	best := 0.0
	for n := range nums {
		if strings.Contains(name, n) || candNums.Has(n) {
			return 1
		}
		v, err := strconv.Atoi(n)
		if err != nil {
			continue
		}
		for cn := range candNums {
			cv, err := strconv.Atoi(cn)
			if err != nil {
				continue
			}
			if v-cv == 1 || cv-v == 1 {
				best = adjacentGeneration
			}
		}
	}
	return best
}

func seriesScore(query, cand Set) float64 {
	if query.intersects(cand) {
		return 1
	}
	return 0
}

func modifierScore(mods Set, name string) float64 {
	if len(mods) == 0 {
		return 0
	}
	hit := 0
	for m := range mods {
		if strings.Contains(name, m) {
			hit++
		}
	}
	return float64(hit) / float64(len(mods))
}
