// Package catalog provides per-category catalog snapshots backed by the key-value store.
//
// Snapshots are decoded once and held in process for the refresh interval. Concurrent
// misses for one category share a single load. When the store fails and a previous
// snapshot exists, the previous snapshot keeps serving.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pricewise/pricesearch/internal/db"
	"github.com/pricewise/pricesearch/internal/domain"
	domcat "github.com/pricewise/pricesearch/internal/domain/catalog"
)

// DefaultRefresh is how long a loaded snapshot is served before it is reloaded.
const DefaultRefresh = 5 * time.Minute

const warmConcurrency = 4

// store is the consumer interface for catalog storage (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Config holds repository settings.
type Config struct {
	KeyPrefix string
	// Categories lists the served categories. Empty means any category is accepted.
	Categories []string
	// Refresh is the in-process snapshot lifetime. Zero selects DefaultRefresh;
	// a negative value reloads on every Get.
	Refresh time.Duration
}

// Metrics are optional counters; nil fields are skipped.
type Metrics struct {
	Loads  *prometheus.CounterVec // labels: category, result
	Issues *prometheus.CounterVec // labels: category
}

type cached struct {
	snap     domcat.Snapshot
	loadedAt time.Time
}

// Repo loads and stores catalog snapshots.
type Repo struct {
	store      store
	prefix     string
	categories []string
	allowed    map[string]struct{}
	refresh    time.Duration
	metrics    Metrics
	logger     *zap.Logger
	now        func() time.Time

	mu    sync.RWMutex
	snaps map[string]cached
	group singleflight.Group
}

// New creates a catalog repository.
func New(s store, cfg Config, m Metrics, logger *zap.Logger) *Repo {
	refresh := cfg.Refresh
	if refresh == 0 {
		refresh = DefaultRefresh
	}
	r := &Repo{
		store:   s,
		prefix:  cfg.KeyPrefix,
		refresh: refresh,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		snaps:   make(map[string]cached),
	}
	if len(cfg.Categories) > 0 {
		r.allowed = make(map[string]struct{}, len(cfg.Categories))
		for _, c := range cfg.Categories {
			c = domain.NormalizeCategory(c)
			if _, dup := r.allowed[c]; dup || c == "" {
				continue
			}
			r.allowed[c] = struct{}{}
			r.categories = append(r.categories, c)
		}
	}
	return r
}

// Categories returns the configured categories in configuration order.
func (r *Repo) Categories() []string { return r.categories }

// Key returns the storage key of a category catalog.
func (r *Repo) Key(category string) string {
	return r.prefix + "catalog:" + category
}

// Get returns the snapshot of a category.
func (r *Repo) Get(ctx context.Context, category string) (domcat.Snapshot, error) {
	category, err := r.check(category)
	if err != nil {
		return domcat.Snapshot{}, err
	}

	r.mu.RLock()
	c, ok := r.snaps[category]
	r.mu.RUnlock()
	if ok && r.fresh(c) {
		return c.snap, nil
	}

	v, err, _ := r.group.Do(category, func() (any, error) {
		return r.load(ctx, category)
	})
	if err != nil {
		return domcat.Snapshot{}, err //nolint:wrapcheck // already wrapped by load
	}
	return v.(domcat.Snapshot), nil
}

// Put validates a catalog document and stores it in normalized form.
// The returned snapshot carries the issues found while decoding.
func (r *Repo) Put(ctx context.Context, category string, raw []byte) (domcat.Snapshot, error) {
	category, err := r.check(category)
	if err != nil {
		return domcat.Snapshot{}, err
	}

	snap, err := domcat.Decode(category, raw)
	if err != nil {
		return domcat.Snapshot{}, fmt.Errorf("decode catalog %s: %w", category, err)
	}
	if snap.IsEmpty() {
		return snap, fmt.Errorf("catalog %s: %w: no usable models", category, domain.ErrInvalidCatalog)
	}

	data, err := domcat.Encode(snap)
	if err != nil {
		return snap, fmt.Errorf("encode catalog %s: %w", category, err)
	}
	if err := r.store.Set(ctx, r.Key(category), data); err != nil {
		return snap, fmt.Errorf("store catalog %s: %w: %w", category, domain.ErrCatalogUnavailable, err)
	}

	r.mu.Lock()
	r.snaps[category] = cached{snap: snap, loadedAt: r.now()}
	r.mu.Unlock()

	r.logger.Info("Catalog stored",
		zap.String("category", category),
		zap.Int("brands", len(snap.Entries())),
		zap.Int("models", snap.Len()),
		zap.Int("issues", len(snap.Issues())),
	)
	return snap, nil
}

// Invalidate drops the in-process snapshot of a category.
func (r *Repo) Invalidate(category string) {
	r.mu.Lock()
	delete(r.snaps, domain.NormalizeCategory(category))
	r.mu.Unlock()
}

// Warm loads every configured category concurrently. Missing catalogs are logged and
// skipped; the first other failure is returned.
func (r *Repo) Warm(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)
	for _, category := range r.categories {
		g.Go(func() error {
			_, err := r.Get(ctx, category)
			if errors.Is(err, domain.ErrCategoryNotFound) {
				r.logger.Info("No catalog stored for category", zap.String("category", category))
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("warm catalogs: %w", err)
	}
	return nil
}

func (r *Repo) load(ctx context.Context, category string) (domcat.Snapshot, error) {
	data, err := r.store.Get(ctx, r.Key(category))
	if errors.Is(err, db.ErrKeyNotFound) {
		r.Invalidate(category)
		r.incLoad(category, "missing")
		return domcat.Snapshot{}, fmt.Errorf("catalog %s: %w", category, domain.ErrCategoryNotFound)
	}
	if err == nil {
		var snap domcat.Snapshot
		snap, err = domcat.Decode(category, data)
		if err == nil {
			r.incLoad(category, "ok")
			r.reportIssues(snap)
			r.mu.Lock()
			r.snaps[category] = cached{snap: snap, loadedAt: r.now()}
			r.mu.Unlock()
			return snap, nil
		}
	}

	r.mu.RLock()
	prev, ok := r.snaps[category]
	r.mu.RUnlock()
	if ok {
		r.incLoad(category, "stale")
		r.logger.Warn("Catalog reload failed, serving previous snapshot",
			zap.String("category", category),
			zap.Duration("age", r.now().Sub(prev.loadedAt)),
			zap.Error(err),
		)
		return prev.snap, nil
	}

	r.incLoad(category, "error")
	return domcat.Snapshot{}, fmt.Errorf("load catalog %s: %w: %w", category, domain.ErrCatalogUnavailable, err)
}

func (r *Repo) reportIssues(snap domcat.Snapshot) {
	issues := snap.Issues()
	if len(issues) == 0 {
		return
	}
	if r.metrics.Issues != nil {
		r.metrics.Issues.WithLabelValues(snap.Category()).Add(float64(len(issues)))
	}
	r.logger.Warn("Catalog records skipped",
		zap.String("category", snap.Category()),
		zap.Int("count", len(issues)),
		zap.Stringer("first", issues[0]),
	)
}

func (r *Repo) check(category string) (string, error) {
	category = domain.NormalizeCategory(category)
	if category == "" {
		return "", fmt.Errorf("empty category: %w", domain.ErrCategoryNotFound)
	}
	if r.allowed != nil {
		if _, ok := r.allowed[category]; !ok {
			return "", fmt.Errorf("category %s: %w", category, domain.ErrCategoryNotFound)
		}
	}
	return category, nil
}

func (r *Repo) fresh(c cached) bool {
	return r.refresh > 0 && r.now().Sub(c.loadedAt) < r.refresh
}

func (r *Repo) incLoad(category, outcome string) {
	if r.metrics.Loads != nil {
		r.metrics.Loads.WithLabelValues(category, outcome).Inc()
	}
}

