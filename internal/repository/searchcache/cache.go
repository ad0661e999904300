// Package searchcache stores ranked search results in the key-value store.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/pricewise/pricesearch/internal/db"
	"github.com/pricewise/pricesearch/internal/domain"
	"github.com/pricewise/pricesearch/internal/domain/search/result"
	"github.com/pricewise/pricesearch/internal/textnorm"
)

// DefaultTTL matches the result lifetime of the web frontend.
const DefaultTTL = time.Hour

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache keeps search results keyed by category and normalized query.
// Store failures are logged and reported as misses; they never fail a search.
type Cache struct {
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a result cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store:      s,
		prefix:     keyPrefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Get returns a cached result for the query.
func (c *Cache) Get(ctx context.Context, category, query string) (result.Result, bool) {
	key := c.Key(category, query)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search result", zap.String("key", key), zap.Error(err))
		}
		c.inc("miss")
		return result.Result{}, false
	}

	var dto cachedResult
	if err := json.Unmarshal(data, &dto); err != nil {
		c.logger.Warn("Failed to parse cached search result", zap.String("key", key), zap.Error(err))
		c.inc("miss")
		return result.Result{}, false
	}

	c.inc("hit")
	return dto.toDomain(), true
}

// Put stores a result for the query. Diagnostics are not cached.
func (c *Cache) Put(ctx context.Context, category, query string, r result.Result) {
	key := c.Key(category, query)

	data, err := json.Marshal(fromDomain(r))
	if err != nil {
		c.logger.Warn("Failed to encode search result", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search result", zap.String("key", key), zap.Error(err))
	}
}

// Key returns the storage key of a query: equivalent categories and queries share one key.
func (c *Cache) Key(category, query string) string {
	h := sha256.Sum256([]byte(textnorm.Normalize(query)))
	return c.prefix + "search:" + domain.NormalizeCategory(category) + ":" + hex.EncodeToString(h[:])
}

func (c *Cache) inc(outcome string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(outcome).Inc()
	}
}
