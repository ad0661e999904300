package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pricewise/pricesearch/internal/db"
)

const phonesDoc = `{"apple": {"models": ["iPhone 15", {"model": "iPhone 15 Pro", "model_image": "p.png"}, 3]}}`

// fakeStore implements the consumer interface for tests.
type fakeStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	gets  atomic.Int32
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.gets.Add(1)
	if f.getFn != nil {
		return f.getFn(ctx, key)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(ctx context.Context, key string, value []byte) error {
	if f.setFn != nil {
		return f.setFn(ctx, key, value)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *clock { return &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)} }

func newTestRepo(t *testing.T, s *fakeStore, categories ...string) (*Repo, *clock) {
	t.Helper()
	r := New(s, Config{KeyPrefix: "ps:", Categories: categories, Refresh: time.Minute}, Metrics{}, zap.NewNop())
	c := newClock()
	r.now = c.now
	return r, c
}
