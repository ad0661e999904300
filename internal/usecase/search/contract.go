package search

import (
	"context"

	domcat "github.com/pricewise/pricesearch/internal/domain/catalog"
	"github.com/pricewise/pricesearch/internal/domain/search/result"
)

// CatalogProvider supplies catalog snapshots per category.
type CatalogProvider interface {
	Get(ctx context.Context, category string) (domcat.Snapshot, error)
	Categories() []string
}

// Ranker ranks a snapshot against a query.
type Ranker interface {
	Search(query string, snap domcat.Snapshot) result.Result
}

// ResultCache stores ranked results. Implementations swallow their own failures.
type ResultCache interface {
	Get(ctx context.Context, category, query string) (result.Result, bool)
	Put(ctx context.Context, category, query string, r result.Result)
}
