package domain

import "errors"

var (
	// ErrCategoryNotFound signals an unknown product category or a category without a catalog.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrCatalogUnavailable signals that the catalog store could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrInvalidCatalog signals a catalog document that cannot be decoded at all.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrQueryTooLong signals a query above the configured length limit.
	ErrQueryTooLong = errors.New("query too long")
)
