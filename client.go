package pricesearch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/pricewise/pricesearch/internal/db"
	"github.com/pricewise/pricesearch/internal/db/memory"
	dbRedis "github.com/pricewise/pricesearch/internal/db/redis"
	"github.com/pricewise/pricesearch/internal/domain"
	domcat "github.com/pricewise/pricesearch/internal/domain/catalog"
	"github.com/pricewise/pricesearch/internal/domain/search/result"
	"github.com/pricewise/pricesearch/internal/engine"
	catalogrepo "github.com/pricewise/pricesearch/internal/repository/catalog"
	"github.com/pricewise/pricesearch/internal/repository/searchcache"
	healthuc "github.com/pricewise/pricesearch/internal/usecase/health"
	searchuc "github.com/pricewise/pricesearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, replaceable in tests.
type searchUseCase interface {
	Search(ctx context.Context, category, query string) (result.Result, error)
	Resolve(ctx context.Context, category, query string) (searchuc.Resolution, error)
	Brands(ctx context.Context, category string) ([]string, error)
	Categories() []string
}

type catalogUseCase interface {
	Put(ctx context.Context, category string, raw []byte) (domcat.Snapshot, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the pricesearch SDK entry point. It is safe for concurrent use.
type Client struct {
	store           db.Store
	searchSvc       searchUseCase
	catalogs        catalogUseCase
	healthSvc       healthUseCase
	defaultCategory string
	obs             *observer
}

// New creates a Client. With WithRedis or WithValkey it connects to the database and
// waits for it; otherwise catalogs are held in memory and at least one
// WithStaticCatalog is required. The context bounds the readiness check and the
// static catalog loads.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: domain.KeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 && len(cfg.static) == 0 {
		return nil, errors.New("pricesearch: catalog source required (use WithRedis, WithValkey or WithStaticCatalog)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("pricesearch: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(ctx, store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "":
		return memory.NewStore(), nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("pricesearch: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("pricesearch: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	categories := cfg.categories
	if len(categories) == 0 {
		categories = domain.DefaultCategories()
	}
	for _, sc := range cfg.static {
		if !slices.Contains(categories, sc.category) {
			categories = append(categories, sc.category)
		}
	}

	defaultCategory := cfg.defaultCategory
	if defaultCategory == "" {
		defaultCategory = domain.DefaultCategory
		if len(cfg.static) > 0 {
			defaultCategory = cfg.static[0].category
		}
	}

	repo := catalogrepo.New(store, catalogrepo.Config{
		KeyPrefix:  cfg.keyPrefix,
		Categories: categories,
		Refresh:    cfg.refresh,
	}, catalogrepo.Metrics{}, zap.NewNop())

	for _, sc := range cfg.static {
		if _, err := repo.Put(ctx, sc.category, sc.doc); err != nil {
			return nil, fmt.Errorf("pricesearch: load catalog %s: %w", sc.category, err)
		}
	}

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cache searchuc.ResultCache
	if cfg.cacheTTL > 0 {
		cache = searchcache.New(store, cfg.keyPrefix, cfg.cacheTTL, nil, zap.NewNop())
	}

	searchSvc := searchuc.New(repo, engine.New(nil), cache, searchuc.Config{
		DefaultCategory: defaultCategory,
		MaxQueryLength:  cfg.maxQueryLength,
	})

	return &Client{
		store:           store,
		searchSvc:       searchSvc,
		catalogs:        repo,
		healthSvc:       healthuc.New(store, repo, defaultCategory),
		defaultCategory: defaultCategory,
		obs:             obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", "", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search ranks the catalog of category against query. An empty category selects the
// default one. A blank query returns an empty result without reading the catalog.
func (c *Client) Search(ctx context.Context, category, query string) (_ SearchResult, err error) {
	category = c.category(category)
	start := time.Now()
	defer func() { c.obs.observe("search", c.label(category), start, err) }()

	res, err := c.searchSvc.Search(ctx, category, query)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return fromResult(res), nil
}

// Resolve searches and classifies the outcome: a confident model, a confident brand,
// or candidates to disambiguate.
func (c *Client) Resolve(ctx context.Context, category, query string) (_ Resolution, err error) {
	category = c.category(category)
	start := time.Now()
	defer func() { c.obs.observe("resolve", c.label(category), start, err) }()

	res, err := c.searchSvc.Resolve(ctx, category, query)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolve: %w", err)
	}
	out := fromResolution(res)
	c.obs.resolved(out.Kind)
	return out, nil
}

// Brands lists the brand keys of a category catalog in order.
func (c *Client) Brands(ctx context.Context, category string) (_ []string, err error) {
	category = c.category(category)
	start := time.Now()
	defer func() { c.obs.observe("brands", c.label(category), start, err) }()

	brands, err := c.searchSvc.Brands(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("brands: %w", err)
	}
	return brands, nil
}

// Categories returns the served categories.
func (c *Client) Categories() []string {
	return c.searchSvc.Categories()
}

// LoadCatalog validates a catalog document and stores it for category.
// Records that cannot be used are skipped and listed in the report.
func (c *Client) LoadCatalog(ctx context.Context, category string, doc []byte) (_ CatalogReport, err error) {
	category = c.category(category)
	start := time.Now()
	defer func() { c.obs.observe("catalog.load", c.label(category), start, err) }()

	snap, err := c.catalogs.Put(ctx, category, doc)
	if err != nil {
		return CatalogReport{}, fmt.Errorf("load catalog: %w", err)
	}
	return fromSnapshot(snap), nil
}

// Health checks the health of all system components.
func (c *Client) Health(ctx context.Context) HealthStatus {
	return fromReport(c.healthSvc.Check(ctx))
}

func (c *Client) category(category string) string {
	if category == "" {
		return c.defaultCategory
	}
	return category
}

// label keeps metric label values within the served categories.
func (c *Client) label(category string) string {
	category = domain.NormalizeCategory(category)
	if slices.Contains(c.searchSvc.Categories(), category) {
		return category
	}
	return "unlisted"
}
