package pricesearch

import (
	domcat "github.com/pricewise/pricesearch/internal/domain/catalog"
	"github.com/pricewise/pricesearch/internal/domain/search/result"
	healthuc "github.com/pricewise/pricesearch/internal/usecase/health"
	searchuc "github.com/pricewise/pricesearch/internal/usecase/search"
)

// BrandMatch is a candidate brand with its confidence score in [0, 1].
type BrandMatch struct {
	Brand string
	Score float64
}

// ModelMatch is a candidate catalog model with its confidence score in [0, 1].
type ModelMatch struct {
	Brand string
	Model string
	Image string // opaque reference from the catalog, may be empty
	Score float64
}

// SearchResult lists brand and model candidates in descending score order.
// Both slices are non-nil.
type SearchResult struct {
	Brands []BrandMatch
	Models []ModelMatch
}

// Top returns the best model candidate.
func (r SearchResult) Top() (ModelMatch, bool) {
	if len(r.Models) == 0 {
		return ModelMatch{}, false
	}
	return r.Models[0], true
}

// ResolutionKind tells how confidently a query was resolved.
type ResolutionKind string

// Resolution kinds.
const (
	KindModel      ResolutionKind = "model"
	KindBrand      ResolutionKind = "brand"
	KindCandidates ResolutionKind = "candidates"
)

// Resolution is a search result interpreted with the confidence thresholds:
// a single model, a single brand, or a list of candidates.
type Resolution struct {
	Kind   ResolutionKind
	Brand  string // set for KindModel and KindBrand
	Model  string // set for KindModel
	Image  string
	Result SearchResult
}

// CatalogReport summarizes a loaded catalog document.
type CatalogReport struct {
	Category string
	Brands   int
	Models   int
	Issues   []string // records skipped while loading
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

func fromResult(r result.Result) SearchResult {
	out := SearchResult{
		Brands: make([]BrandMatch, len(r.Brands())),
		Models: make([]ModelMatch, len(r.Models())),
	}
	for i, b := range r.Brands() {
		out.Brands[i] = BrandMatch{Brand: b.Brand(), Score: b.Score()}
	}
	for i, m := range r.Models() {
		out.Models[i] = ModelMatch{Brand: m.Brand(), Model: m.Model(), Image: m.Image(), Score: m.Score()}
	}
	return out
}

func fromResolution(r searchuc.Resolution) Resolution {
	return Resolution{
		Kind:   ResolutionKind(r.Kind),
		Brand:  r.Brand,
		Model:  r.Model,
		Image:  r.Image,
		Result: fromResult(r.Result),
	}
}

func fromSnapshot(s domcat.Snapshot) CatalogReport {
	issues := make([]string, len(s.Issues()))
	for i, is := range s.Issues() {
		issues[i] = is.String()
	}
	return CatalogReport{
		Category: s.Category(),
		Brands:   len(s.Entries()),
		Models:   s.Len(),
		Issues:   issues,
	}
}

func fromReport(r healthuc.Report) HealthStatus {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{Status: string(r.Status), Checks: checks}
}
