package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ValidSort reports whether sort names a supported order. Empty means recommended.
func ValidSort(sort string) bool {
	switch sort {
	case "", SortRecommended, SortPriceLow, SortPriceHigh, SortRating, SortPopular:
		return true
	default:
		return false
	}
}

// Apply filters by brand and category, then orders the result. The input is not modified.
func Apply(products []Product, q Query) ([]Product, error) {
	if !ValidSort(q.Sort) {
		return nil, fmt.Errorf("unsupported sort %q", q.Sort)
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !matchesFilter(q.Brand, p.Brand) || !matchesFilter(q.Category, string(p.Category)) {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out, q.Sort)
	return out, nil
}

func matchesFilter(filter, value string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || filter == FilterAll || filter == value
}

func sortProducts(products []Product, order string) {
	switch order {
	case SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case SortRating:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Rating > products[j].Rating })
	case SortPopular:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Reviews > products[j].Reviews })
	}
}

// Brands lists the distinct brands, sorted.
func Brands(products []Product) []string {
	return distinct(products, func(p Product) string { return p.Brand })
}

// Categories lists the distinct categories, sorted.
func Categories(products []Product) []string {
	return distinct(products, func(p Product) string { return string(p.Category) })
}

func distinct(products []Product, key func(Product) string) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		k := key(p)
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
