package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pricewise/pricesearch/internal/domain"
)

// Config holds the pricesearch API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Search   SearchConfig   `yaml:"search"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
	MaxBodyBytes    int `yaml:"max_body_bytes"` // catalog uploads
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig holds catalog provider settings.
type CatalogConfig struct {
	Categories      []string `yaml:"categories"`
	DefaultCategory string   `yaml:"default_category"`
	RefreshSec      int      `yaml:"refresh_sec"`
	WarmOnStart     *bool    `yaml:"warm_on_start"`
}

// SearchConfig holds query and ranking settings.
type SearchConfig struct {
	CacheEnabled   *bool   `yaml:"cache_enabled"`
	CacheTTLSec    int     `yaml:"cache_ttl_sec"`
	MaxQueryLength *int    `yaml:"max_query_length"` // 0 = unlimited, unset = 200
	BrandThreshold float64 `yaml:"brand_threshold"`
	ModelThreshold float64 `yaml:"model_threshold"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 8 << 20
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if len(c.Catalog.Categories) == 0 {
		c.Catalog.Categories = domain.DefaultCategories()
	}
	if c.Catalog.DefaultCategory == "" {
		c.Catalog.DefaultCategory = domain.DefaultCategory
	}
	if c.Catalog.RefreshSec == 0 {
		c.Catalog.RefreshSec = 300
	}
	if c.Catalog.WarmOnStart == nil {
		c.Catalog.WarmOnStart = boolPtr(true)
	}
	if c.Search.CacheEnabled == nil {
		c.Search.CacheEnabled = boolPtr(true)
	}
	if c.Search.CacheTTLSec <= 0 {
		c.Search.CacheTTLSec = 3600
	}
	if c.Search.MaxQueryLength == nil {
		n := defaultMaxQueryLength
		c.Search.MaxQueryLength = &n
	}
	if c.Search.BrandThreshold == 0 {
		c.Search.BrandThreshold = 0.8
	}
	if c.Search.ModelThreshold == 0 {
		c.Search.ModelThreshold = 0.9
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = domain.KeyPrefix
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case "redis", "valkey":
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"valkey\", got %q", c.Database.Driver)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if !slices.Contains(c.Catalog.Categories, c.Catalog.DefaultCategory) {
		return fmt.Errorf("catalog.default_category %q is not in catalog.categories", c.Catalog.DefaultCategory)
	}
	if c.QueryLimit() < 0 {
		return fmt.Errorf("search.max_query_length must be >= 0, got %d", c.QueryLimit())
	}
	for name, v := range map[string]float64{
		"search.brand_threshold": c.Search.BrandThreshold,
		"search.model_threshold": c.Search.ModelThreshold,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %v", name, v)
		}
	}
	return nil
}

// CacheEnabled reports whether search results are cached.
func (c *Config) CacheEnabled() bool {
	return c.Search.CacheEnabled == nil || *c.Search.CacheEnabled
}

// QueryLimit returns the maximum query length in runes; 0 means unlimited.
func (c *Config) QueryLimit() int {
	if c.Search.MaxQueryLength == nil {
		return defaultMaxQueryLength
	}
	return *c.Search.MaxQueryLength
}

// WarmOnStart reports whether catalogs are loaded before serving.
func (c *Config) WarmOnStart() bool {
	return c.Catalog.WarmOnStart == nil || *c.Catalog.WarmOnStart
}

func boolPtr(b bool) *bool { return &b }

const defaultMaxQueryLength = 200

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
