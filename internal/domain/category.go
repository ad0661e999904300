package domain

import "strings"

// KeyPrefix is the default storage key prefix.
const KeyPrefix = "pricesearch:"

// DefaultCategory is searched when a request names no category.
const DefaultCategory = "phones"

// DefaultCategories lists the product categories served out of the box.
func DefaultCategories() []string {
	return []string{"phones", "cosmetics", "laptops", "shoes", "sound_systems"}
}

// NormalizeCategory returns the canonical form of a category name.
func NormalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
