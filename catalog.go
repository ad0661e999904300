package pricesearch

import (
	"fmt"

	domcat "github.com/pricewise/pricesearch/internal/domain/catalog"
)

// CheckCatalog decodes a catalog document without storing it and reports the records
// that would be skipped. It fails only when the document is not a JSON object.
func CheckCatalog(category string, doc []byte) (CatalogReport, error) {
	snap, err := domcat.Decode(category, doc)
	if err != nil {
		return CatalogReport{}, fmt.Errorf("check catalog: %w", err)
	}
	return fromSnapshot(snap), nil
}
