package health

import (
	"context"

	domcat "github.com/pricewise/pricesearch/internal/domain/catalog"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogReader loads a category catalog.
type CatalogReader interface {
	Get(ctx context.Context, category string) (domcat.Snapshot, error)
}
