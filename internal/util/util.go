// Package util contains small generic helpers shared across the module.
package util

import (
	"sort"
)

// SortBy returns a copy of items sorted using the given less function to
// compare elements.
func SortBy[E any](items []E, less func(left E, right E) bool) []E {
	if len(items) < 2 {
		return items
	}

	sorted := make([]E, len(items))
	copy(sorted, items)

	sort.Slice(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}
