package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pricewise/pricesearch/internal/domain"
	"github.com/pricewise/pricesearch/internal/domain/search/result"
	"github.com/pricewise/pricesearch/internal/logger"
	"github.com/pricewise/pricesearch/internal/metrics"
	"github.com/pricewise/pricesearch/internal/textnorm"
)

// unlistedLabel is the metric label of categories outside the served list.
const unlistedLabel = "unlisted"

// Config holds search service settings.
type Config struct {
	DefaultCategory string
	MaxQueryLength  int // in runes, 0 = unlimited
	BrandThreshold  float64
	ModelThreshold  float64
}

// Service runs free-text product searches against category catalogs.
type Service struct {
	catalogs CatalogProvider
	ranker   Ranker
	cache    ResultCache
	cfg      Config
}

// New creates a search service. cache can be nil.
func New(catalogs CatalogProvider, ranker Ranker, cache ResultCache, cfg Config) *Service {
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = domain.DefaultCategory
	}
	if cfg.BrandThreshold <= 0 {
		cfg.BrandThreshold = 0.8
	}
	if cfg.ModelThreshold <= 0 {
		cfg.ModelThreshold = 0.9
	}
	return &Service{catalogs: catalogs, ranker: ranker, cache: cache, cfg: cfg}
}

// Categories returns the served categories.
func (s *Service) Categories() []string { return s.catalogs.Categories() }

// category normalizes a requested category and checks it against the served list.
// An empty category selects the default one. With no served list every category passes.
func (s *Service) category(category string) (string, error) {
	category = domain.NormalizeCategory(category)
	if category == "" {
		category = domain.NormalizeCategory(s.cfg.DefaultCategory)
	}
	served := s.catalogs.Categories()
	if len(served) > 0 && !slices.Contains(served, category) {
		return "", fmt.Errorf("category %q: %w", category, domain.ErrCategoryNotFound)
	}
	return category, nil
}

// label bounds metric label values to the served categories.
func (s *Service) label(category string) string {
	if category != "" && slices.Contains(s.catalogs.Categories(), category) {
		return category
	}
	return unlistedLabel
}

// Search ranks the brands and models of a category catalog against query.
// An empty category selects the default one. A blank query yields an empty result.
func (s *Service) Search(ctx context.Context, category, query string) (result.Result, error) {
	start := time.Now()
	category, err := s.category(category)
	if err != nil {
		s.observe(ctx, "", query, result.Result{}, false, time.Since(start), err)
		return result.Result{}, err
	}
	ctx = logger.With(ctx, zap.String("category", category))

	res, cached, err := s.search(ctx, category, query)
	s.observe(ctx, category, query, res, cached, time.Since(start), err)
	return res, err
}

// search runs a query against an already validated category.
func (s *Service) search(ctx context.Context, category, query string) (result.Result, bool, error) {
	if s.cfg.MaxQueryLength > 0 && utf8.RuneCountInString(query) > s.cfg.MaxQueryLength {
		return result.Result{}, false, fmt.Errorf("%w: %d > %d characters",
			domain.ErrQueryTooLong, utf8.RuneCountInString(query), s.cfg.MaxQueryLength)
	}
	if textnorm.Normalize(query) == "" {
		return result.Empty(), false, nil
	}

	if s.cache != nil {
		if res, ok := s.cache.Get(ctx, category, query); ok {
			return res, true, nil
		}
	}

	snap, err := s.catalogs.Get(ctx, category)
	if err != nil {
		return result.Result{}, false, fmt.Errorf("get catalog: %w", err)
	}

	res := s.ranker.Search(query, snap)

	if s.cache != nil {
		s.cache.Put(ctx, category, query, res)
	}
	return res, false, nil
}

func (s *Service) observe(
	ctx context.Context, category, query string,
	res result.Result, cached bool, d time.Duration, err error,
) {
	log := logger.FromContext(ctx)
	status := "ok"
	switch {
	case errors.Is(err, domain.ErrQueryTooLong):
		status = "rejected"
	case errors.Is(err, domain.ErrCategoryNotFound):
		status = "not_found"
	case err != nil:
		status = "error"
		log.Error("Search failed", zap.Error(err))
	}
	label := s.label(category)
	metrics.SearchRequestsTotal.WithLabelValues(label, status).Inc()
	if err != nil {
		return
	}

	metrics.SearchDuration.WithLabelValues(label).Observe(d.Seconds())
	metrics.SearchResults.WithLabelValues(label, "brand").Observe(float64(len(res.Brands())))
	metrics.SearchResults.WithLabelValues(label, "model").Observe(float64(len(res.Models())))
	if top, ok := res.TopModel(); ok {
		metrics.SearchTopScore.WithLabelValues(label).Observe(top.Score())
	}

	log.Debug("Search completed",
		zap.Int("query_len", utf8.RuneCountInString(query)),
		zap.Int("brands", len(res.Brands())),
		zap.Int("models", len(res.Models())),
		zap.Bool("cached", cached),
		zap.Duration("duration", d),
	)
	for _, diag := range res.Diagnostics() {
		log.Debug("Catalog record skipped",
			zap.String("brand", diag.Brand),
			zap.String("reason", diag.Reason),
		)
	}
}

// Brands lists the brand keys of a category catalog.
func (s *Service) Brands(ctx context.Context, category string) ([]string, error) {
	category, err := s.category(category)
	if err != nil {
		return nil, err
	}
	snap, err := s.catalogs.Get(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("get catalog: %w", err)
	}
	return snap.Brands(), nil
}
