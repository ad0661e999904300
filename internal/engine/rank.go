package engine

import (
	"sort"
	"strings"

	"github.com/pricewise/pricesearch/internal/domain/catalog"
	"github.com/pricewise/pricesearch/internal/domain/search/result"
	"github.com/pricewise/pricesearch/internal/textnorm"
)

// Structured score blend when the query names a brand.
const (
	structuredBrandWeight = 0.3
	structuredModelWeight = 0.7
)

// Diagnostic reasons for records skipped while ranking.
const (
	ReasonEmptyBrand = "empty brand key"
	ReasonEmptyModel = "empty model name"
)

// Search ranks every brand and model of snap against query. Both lists are sorted by
// descending score (ties by brand, then model), filtered and capped per the engine limits.
// Malformed records are skipped and reported as diagnostics.
func (e *Engine) Search(query string, snap catalog.Snapshot) result.Result {
	c := e.Extract(query)
	if c.Normalized == "" {
		return result.Empty()
	}
	e.detectCatalogBrands(&c, snap)
	structured := len(c.Brands) > 0

	var (
		brands      = []result.Brand{}
		models      = []result.Model{}
		diagnostics []result.Diagnostic
	)
	for _, entry := range snap.Entries() {
		brand := entry.Brand()
		if strings.TrimSpace(brand) == "" {
			diagnostics = append(diagnostics, result.Diagnostic{Reason: ReasonEmptyBrand})
			continue
		}

		brandScore := e.ScoreBrand(c, brand)
		if brandScore >= e.limits.BrandFloor {
			brands = append(brands, result.NewBrand(brand, clamp(brandScore)))
		}

		for _, m := range entry.Models() {
			name := strings.TrimSpace(m.Name())
			if name == "" {
				diagnostics = append(diagnostics, result.Diagnostic{Brand: brand, Reason: ReasonEmptyModel})
				continue
			}

			score := FuzzySimilarity(c.Normalized, textnorm.Normalize(brand+" "+name))
			if structured {
				s := structuredBrandWeight*brandScore + structuredModelWeight*e.ScoreModel(c, brand, name)
				score = max(score, s)
			}
			score = clamp(score)
			if score >= e.limits.ModelFloor {
				models = append(models, result.NewModel(brand, m.Name(), m.Image(), score))
			}
		}
	}

	sortBrands(brands)
	sortModels(models)
	models = e.adaptiveFilter(models)

	return result.New(capSlice(brands, e.limits.MaxBrands), capSlice(models, e.limits.MaxModels), diagnostics)
}

// adaptiveFilter trims the tail relative to the top score. models must be sorted.
func (e *Engine) adaptiveFilter(models []result.Model) []result.Model {
	if len(models) == 0 {
		return models
	}
	l := e.limits
	top := models[0].Score()

	var cut float64
	switch {
	case top > l.StrongTop:
		cut = max(l.StrongFloor, top-l.StrongSpread)
	case top > l.FairTop:
		cut = max(l.FairFloor, top-l.FairSpread)
	default:
		return models
	}

	n := sort.Search(len(models), func(i int) bool { return models[i].Score() < cut })
	return models[:n]
}

func sortBrands(brands []result.Brand) {
	sort.SliceStable(brands, func(i, j int) bool {
		if brands[i].Score() != brands[j].Score() {
			return brands[i].Score() > brands[j].Score()
		}
		return brands[i].Brand() < brands[j].Brand()
	})
}

func sortModels(models []result.Model) {
	sort.SliceStable(models, func(i, j int) bool {
		a, b := models[i], models[j]
		if a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		if a.Brand() != b.Brand() {
			return a.Brand() < b.Brand()
		}
		return a.Model() < b.Model()
	})
}

func capSlice[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
