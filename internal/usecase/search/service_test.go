package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pricewise/pricesearch/internal/domain"
	domcat "github.com/pricewise/pricesearch/internal/domain/catalog"
	"github.com/pricewise/pricesearch/internal/domain/search/result"
	"github.com/pricewise/pricesearch/internal/engine"
	"github.com/pricewise/pricesearch/internal/metrics"
)

// --- Mocks ---

type mockCatalogs struct {
	snaps map[string]domcat.Snapshot
	err   error
	calls []string
}

func (m *mockCatalogs) Get(_ context.Context, category string) (domcat.Snapshot, error) {
	m.calls = append(m.calls, category)
	if m.err != nil {
		return domcat.Snapshot{}, m.err
	}
	s, ok := m.snaps[category]
	if !ok {
		return domcat.Snapshot{}, domain.ErrCategoryNotFound
	}
	return s, nil
}

func (m *mockCatalogs) Categories() []string { return []string{"phones", "laptops"} }

type mockCache struct {
	data map[string]result.Result
	puts int
}

func newMockCache() *mockCache { return &mockCache{data: map[string]result.Result{}} }

func (m *mockCache) Get(_ context.Context, category, query string) (result.Result, bool) {
	r, ok := m.data[category+"|"+query]
	return r, ok
}

func (m *mockCache) Put(_ context.Context, category, query string, r result.Result) {
	m.puts++
	m.data[category+"|"+query] = r
}

func newCatalogs() *mockCatalogs {
	return &mockCatalogs{snaps: map[string]domcat.Snapshot{
		"phones": domcat.FromEntries("phones",
			domcat.NewEntry("apple", domcat.NewModel("iPhone 15", "15.png"), domcat.NewModel("iPhone 13", "")),
			domcat.NewEntry("samsung", domcat.NewModel("Galaxy S24", "")),
		),
	}}
}

func newService(cats *mockCatalogs, cache ResultCache) *Service {
	return New(cats, engine.New(nil), cache, Config{DefaultCategory: "phones", MaxQueryLength: 50})
}

// --- Tests ---

func TestSearch_DefaultCategory(t *testing.T) {
	cats := newCatalogs()
	svc := newService(cats, nil)

	res, err := svc.Search(context.Background(), "", "iphone 15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cats.calls) != 1 || cats.calls[0] != "phones" {
		t.Errorf("catalog calls = %v", cats.calls)
	}
	top, ok := res.TopModel()
	if !ok || top.Model() != "iPhone 15" {
		t.Errorf("TopModel() = %v, %v", top, ok)
	}
}

func TestSearch_QueryTooLong(t *testing.T) {
	cats := newCatalogs()
	svc := newService(cats, nil)

	_, err := svc.Search(context.Background(), "phones", strings.Repeat("я", 51))
	if !errors.Is(err, domain.ErrQueryTooLong) {
		t.Fatalf("expected ErrQueryTooLong, got %v", err)
	}
	if len(cats.calls) != 0 {
		t.Error("catalog must not be loaded for rejected queries")
	}
}

func TestSearch_BlankQuery(t *testing.T) {
	cats := newCatalogs()
	svc := newService(cats, newMockCache())

	res, err := svc.Search(context.Background(), "phones", "  --- ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsEmpty() {
		t.Errorf("expected empty result, got %+v", res)
	}
	if len(cats.calls) != 0 {
		t.Error("catalog must not be loaded for blank queries")
	}
}

func TestSearch_Cache(t *testing.T) {
	cats := newCatalogs()
	cache := newMockCache()
	svc := newService(cats, cache)

	first, err := svc.Search(context.Background(), "phones", "galaxy s24")
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Search(context.Background(), "phones", "galaxy s24")
	if err != nil {
		t.Fatal(err)
	}

	if len(cats.calls) != 1 {
		t.Errorf("catalog calls = %d, want 1", len(cats.calls))
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
	a, _ := first.TopModel()
	b, _ := second.TopModel()
	if a != b {
		t.Errorf("cached result differs: %v vs %v", a, b)
	}
}

func TestSearch_CatalogErrors(t *testing.T) {
	svc := newService(newCatalogs(), nil)
	if _, err := svc.Search(context.Background(), "boats", "x"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}

	cats := newCatalogs()
	cats.err = domain.ErrCatalogUnavailable
	svc = newService(cats, nil)
	if _, err := svc.Search(context.Background(), "phones", "x"); !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Errorf("expected ErrCatalogUnavailable, got %v", err)
	}
}

func TestSearch_UnknownCategorySkipsCatalog(t *testing.T) {
	cats := newCatalogs()
	cache := newMockCache()
	svc := newService(cats, cache)

	if _, err := svc.Search(context.Background(), "boats", "iphone"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if len(cats.calls) != 0 || len(cache.data) != 0 {
		t.Errorf("catalog calls = %v, cache entries = %d", cats.calls, len(cache.data))
	}
	if _, err := svc.Brands(context.Background(), "boats"); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Brands: expected ErrCategoryNotFound, got %v", err)
	}
}

func TestSearch_CategoryNormalized(t *testing.T) {
	cats := newCatalogs()
	cache := newMockCache()
	svc := newService(cats, cache)

	for _, category := range []string{"phones", " Phones ", "PHONES"} {
		if _, err := svc.Search(context.Background(), category, "galaxy s24"); err != nil {
			t.Fatalf("Search(%q): %v", category, err)
		}
	}
	if len(cats.calls) != 1 || cats.calls[0] != "phones" {
		t.Errorf("catalog calls = %v, want one load of phones", cats.calls)
	}
	if cache.puts != 1 {
		t.Errorf("cache puts = %d, want 1", cache.puts)
	}
}

func TestSearch_MetricLabelsBounded(t *testing.T) {
	svc := newService(newCatalogs(), nil)
	ctx := context.Background()

	// Seed the labels a valid category and a rejected one produce.
	_, _ = svc.Search(ctx, "phones", "iphone")
	_, _ = svc.Resolve(ctx, "phones", "iphone")
	_, _ = svc.Search(ctx, "junk-seed", "iphone")
	_, _ = svc.Resolve(ctx, "junk-seed", "iphone")
	requests := testutil.CollectAndCount(metrics.SearchRequestsTotal)
	resolutions := testutil.CollectAndCount(metrics.ResolutionsTotal)

	for i := range 200 {
		_, _ = svc.Search(ctx, fmt.Sprintf("junk-%d", i), "iphone")
		_, _ = svc.Resolve(ctx, fmt.Sprintf("junk-%d", i), "iphone")
	}

	if got := testutil.CollectAndCount(metrics.SearchRequestsTotal); got != requests {
		t.Errorf("search_requests_total series = %d, want %d", got, requests)
	}
	if got := testutil.CollectAndCount(metrics.ResolutionsTotal); got != resolutions {
		t.Errorf("resolutions_total series = %d, want %d", got, resolutions)
	}
	if got := testutil.ToFloat64(metrics.SearchRequestsTotal.WithLabelValues("unlisted", "not_found")); got < 200 {
		t.Errorf("unlisted not_found count = %v, want >= 200", got)
	}
}

func TestResolve(t *testing.T) {
	svc := newService(newCatalogs(), nil)

	tests := []struct {
		query string
		kind  Kind
		brand string
		model string
	}{
		{"apple iPhone 15", KindModel, "apple", "iPhone 15"},
		{"apple", KindBrand, "apple", ""},
		{"zzzz", KindCandidates, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			r, err := svc.Resolve(context.Background(), "phones", tc.query)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Kind != tc.kind || r.Brand != tc.brand || r.Model != tc.model {
				t.Errorf("Resolve() = %s %q %q, want %s %q %q", r.Kind, r.Brand, r.Model, tc.kind, tc.brand, tc.model)
			}
		})
	}
}

func TestResolve_ModelCarriesImage(t *testing.T) {
	r, err := newService(newCatalogs(), nil).Resolve(context.Background(), "", "apple iphone 15")
	if err != nil {
		t.Fatal(err)
	}
	if r.Image != "15.png" {
		t.Errorf("Image = %q", r.Image)
	}
}

func TestClassify_Thresholds(t *testing.T) {
	svc := New(newCatalogs(), engine.New(nil), nil, Config{BrandThreshold: 0.8, ModelThreshold: 0.9})

	res := result.New(
		[]result.Brand{result.NewBrand("apple", 0.79)},
		[]result.Model{result.NewModel("apple", "iPhone 15", "", 0.899)},
		nil,
	)
	if k := svc.classify(res).Kind; k != KindCandidates {
		t.Errorf("below both thresholds: %s", k)
	}

	res = result.New(
		[]result.Brand{result.NewBrand("apple", 0.8)},
		[]result.Model{result.NewModel("apple", "iPhone 15", "", 0.9)},
		nil,
	)
	if k := svc.classify(res).Kind; k != KindModel {
		t.Errorf("at model threshold: %s", k)
	}
}

func TestBrands(t *testing.T) {
	svc := newService(newCatalogs(), nil)
	brands, err := svc.Brands(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(brands) != 2 || brands[0] != "apple" || brands[1] != "samsung" {
		t.Errorf("Brands() = %v", brands)
	}
	if got := svc.Categories(); len(got) != 2 {
		t.Errorf("Categories() = %v", got)
	}
}
