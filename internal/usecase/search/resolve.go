package search

import (
	"context"

	"github.com/pricewise/pricesearch/internal/domain/search/result"
	"github.com/pricewise/pricesearch/internal/metrics"
)

// Kind tells the caller how confident a resolution is.
type Kind string

const (
	// KindModel means the top model is confident enough to open its comparison page.
	KindModel Kind = "model"
	// KindBrand means only the brand is confident.
	KindBrand Kind = "brand"
	// KindCandidates means the caller should show a disambiguation list.
	KindCandidates Kind = "candidates"
)

// Resolution is a search result interpreted with the routing thresholds.
type Resolution struct {
	Kind   Kind
	Brand  string
	Model  string
	Image  string
	Result result.Result
}

// Resolve searches and decides whether the query names one model, one brand or neither.
func (s *Service) Resolve(ctx context.Context, category, query string) (Resolution, error) {
	category, err := s.category(category)
	if err != nil {
		return Resolution{}, err
	}
	res, err := s.Search(ctx, category, query)
	if err != nil {
		return Resolution{}, err
	}

	r := s.classify(res)
	metrics.ResolutionsTotal.WithLabelValues(s.label(category), string(r.Kind)).Inc()
	return r, nil
}

func (s *Service) classify(res result.Result) Resolution {
	if m, ok := res.TopModel(); ok && m.Score() >= s.cfg.ModelThreshold {
		return Resolution{Kind: KindModel, Brand: m.Brand(), Model: m.Model(), Image: m.Image(), Result: res}
	}
	if b, ok := res.TopBrand(); ok && b.Score() >= s.cfg.BrandThreshold {
		return Resolution{Kind: KindBrand, Brand: b.Brand(), Result: res}
	}
	return Resolution{Kind: KindCandidates, Result: res}
}
