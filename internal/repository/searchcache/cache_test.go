package searchcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/pricewise/pricesearch/internal/domain/search/result"
)

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
}

func sample() result.Result {
	return result.New(
		[]result.Brand{result.NewBrand("apple", 1)},
		[]result.Model{result.NewModel("apple", "iPhone 15", "15.png", 0.93)},
		[]result.Diagnostic{{Brand: "apple", Reason: "empty model name"}},
	)
}

func TestCache_PutGet(t *testing.T) {
	ctx := context.Background()
	st := newMockKVStore()
	counter := newCounter()
	c := New(st, "pricesearch:", 0, counter, zap.NewNop())

	if _, ok := c.Get(ctx, "phones", "iphone 15"); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	c.Put(ctx, "phones", "iphone 15", sample())

	got, ok := c.Get(ctx, "phones", "  iPhone-15 ")
	if !ok {
		t.Fatal("expected hit for equivalent query")
	}
	m, _ := got.TopModel()
	if m.Model() != "iPhone 15" || m.Image() != "15.png" || m.Score() != 0.93 {
		t.Errorf("TopModel() = %+v", m)
	}
	if len(got.Diagnostics()) != 0 {
		t.Error("diagnostics must not be cached")
	}

	key := c.Key("phones", "iphone 15")
	if st.ttls[key] != DefaultTTL {
		t.Errorf("ttl = %v, want %v", st.ttls[key], DefaultTTL)
	}
	if testutil.ToFloat64(counter.WithLabelValues("hit")) != 1 || testutil.ToFloat64(counter.WithLabelValues("miss")) != 1 {
		t.Error("unexpected hit/miss counts")
	}
}

func TestCache_Key(t *testing.T) {
	c := New(newMockKVStore(), "pricesearch:", time.Minute, nil, zap.NewNop())

	key := c.Key("phones", "Galaxy S24")
	if !strings.HasPrefix(key, "pricesearch:search:phones:") {
		t.Errorf("Key() = %q", key)
	}
	if key == c.Key("laptops", "Galaxy S24") {
		t.Error("categories must not share keys")
	}
	if key != c.Key("phones", "galaxy_s24") {
		t.Error("normalized-equal queries must share a key")
	}
	if key != c.Key(" Phones ", "Galaxy S24") {
		t.Error("category case and padding must not split keys")
	}
}

func TestCache_StoreErrorsAreMisses(t *testing.T) {
	ctx := context.Background()
	st := newMockKVStore()
	st.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("connection refused") }
	st.setFn = func(context.Context, string, []byte, time.Duration) error { return errors.New("connection refused") }
	c := New(st, "p:", time.Minute, nil, zap.NewNop())

	c.Put(ctx, "phones", "q", sample())
	if _, ok := c.Get(ctx, "phones", "q"); ok {
		t.Error("store error must be a miss")
	}
}

func TestCache_CorruptEntry(t *testing.T) {
	st := newMockKVStore()
	c := New(st, "p:", time.Minute, nil, zap.NewNop())
	st.data[c.Key("phones", "q")] = []byte("not json")

	if _, ok := c.Get(context.Background(), "phones", "q"); ok {
		t.Error("corrupt entry must be a miss")
	}
}
