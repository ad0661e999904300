package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/rueidis"

	"github.com/pricewise/pricesearch/internal/db"
)

var _ db.Store = (*Store)(nil)

const (
	defaultClientName   = "pricesearch"
	defaultDialTimeout  = 5 * time.Second
	defaultWriteTimeout = 10 * time.Second
	readinessInterval   = 100 * time.Millisecond
)

// Config holds connection parameters for a Redis or Valkey server.
// Zero timeouts fall back to package defaults.
type Config struct {
	Addrs        []string
	Username     string
	Password     string
	DB           int
	ClientName   string // reported by CLIENT LIST; default "pricesearch"
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

func (c Config) option() rueidis.ClientOption {
	name := c.ClientName
	if name == "" {
		name = defaultClientName
	}
	dial := c.DialTimeout
	if dial <= 0 {
		dial = defaultDialTimeout
	}
	write := c.WriteTimeout
	if write <= 0 {
		write = defaultWriteTimeout
	}
	return rueidis.ClientOption{
		InitAddress:      c.Addrs,
		Username:         c.Username,
		Password:         c.Password,
		SelectDB:         c.DB,
		ClientName:       name,
		Dialer:           net.Dialer{Timeout: dial},
		ConnWriteTimeout: write,
		// Catalog documents are re-read on a refresh interval; tracking is not needed.
		DisableCache: true,
	}
}

// Store keeps catalog documents and cached search results as plain string keys.
// Only core commands are used, so Redis and Valkey are served alike.
type Store struct {
	client rueidis.Client
}

// NewStore connects to the configured addresses.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}
	client, err := rueidis.NewClient(cfg.option())
	if err != nil {
		return nil, fmt.Errorf("redis: connect %v: %w", cfg.Addrs, err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings immediately and then every 100ms until the server answers or
// timeout expires. The last ping error is reported on timeout.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(readinessInterval)
	defer ticker.Stop()

	for {
		err := s.Ping(ctx)
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("database not ready after %s: %w", timeout, errors.Join(ctx.Err(), err))
		case <-ticker.C:
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
