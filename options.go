package pricesearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type staticCatalog struct {
	category string
	doc      []byte
}

type clientConfig struct {
	driver   string // "valkey" or "redis"; empty means in-memory
	addrs    []string
	password string

	static          []staticCatalog
	keyPrefix       string
	categories      []string
	defaultCategory string
	refresh         time.Duration
	cacheTTL        time.Duration
	maxQueryLength  int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to read catalogs from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to read catalogs from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithStaticCatalog loads a catalog document for a category when the client is created.
// Without WithRedis or WithValkey the catalogs are held in memory only.
func WithStaticCatalog(category string, doc []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.static = append(c.static, staticCatalog{category: category, doc: doc})
	})
}

// WithCategories restricts the served categories.
// Defaults to phones, cosmetics, laptops, shoes and sound_systems.
func WithCategories(categories ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.categories = categories
	})
}

// WithDefaultCategory sets the category used when a call passes an empty one.
func WithDefaultCategory(category string) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultCategory = category
	})
}

// WithKeyPrefix sets the storage key prefix. Default: "pricesearch:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithCatalogRefresh sets how long a loaded catalog is used before it is re-read.
// Default: 5 minutes.
func WithCatalogRefresh(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.refresh = d
	})
}

// WithResultCache stores search results in the database for ttl.
// Disabled by default.
func WithResultCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithMaxQueryLength rejects queries longer than n characters. Default: unlimited.
func WithMaxQueryLength(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxQueryLength = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
