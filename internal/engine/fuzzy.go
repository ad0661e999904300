package engine

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/pricewise/pricesearch/internal/textnorm"
)

const (
	fullSubstringBonus = 0.9
	wordSubstringBonus = 0.7
	affixBonus         = 0.8
)

// fuzzyWeights apply to the fired metrics sorted descending, truncated and renormalized.
var fuzzyWeights = [...]float64{0.5, 0.3, 0.15, 0.05}

// FuzzySimilarity scores two strings without any brand or model knowledge.
// It blends edit-distance ratio, word Jaccard, a substring bonus and a prefix/suffix
// bonus, counting only the metrics that fired and weighting the strongest most.
func FuzzySimilarity(query, target string) float64 {
	q := textnorm.Normalize(query)
	t := textnorm.Normalize(target)
	if q == "" || t == "" {
		return 0
	}

	qWords := strings.Fields(q)
	metrics := make([]float64, 0, len(fuzzyWeights))
	add := func(v float64) {
		if v > 0 {
			metrics = append(metrics, v)
		}
	}

	add(levenshteinRatio(q, t))
	add(jaccard(qWords, strings.Fields(t)))
	add(substringBonus(q, qWords, t))
	if strings.HasPrefix(t, q) || strings.HasSuffix(t, q) {
		add(affixBonus)
	}

	if len(metrics) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(metrics)))

	var sum, weights float64
	for i, m := range metrics {
		sum += m * fuzzyWeights[i]
		weights += fuzzyWeights[i]
	}
	return clamp(sum / weights)
}

// levenshteinRatio is 1 - distance/longer length, counted in runes.
func levenshteinRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return clamp(1 - float64(d)/float64(longest))
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]uint8, len(a)+len(b))
	for _, w := range a {
		set[w] |= 1
	}
	for _, w := range b {
		set[w] |= 2
	}
	inter := 0
	for _, v := range set {
		if v == 3 {
			inter++
		}
	}
	return float64(inter) / float64(len(set))
}

func substringBonus(q string, qWords []string, t string) float64 {
	if strings.Contains(t, q) {
		return fullSubstringBonus
	}
	for _, w := range qWords {
		if strings.Contains(t, w) {
			return wordSubstringBonus
		}
	}
	return 0
}
