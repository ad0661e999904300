package pricesearch

import "github.com/pricewise/pricesearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrCategoryNotFound   = domain.ErrCategoryNotFound
	ErrCatalogUnavailable = domain.ErrCatalogUnavailable
	ErrInvalidCatalog     = domain.ErrInvalidCatalog
	ErrQueryTooLong       = domain.ErrQueryTooLong
)
