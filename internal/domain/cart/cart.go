package cart

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yanqian/ar-shop/internal/domain/catalog"
	"github.com/yanqian/ar-shop/pkg/util"
)

var (
	// ErrInvalidQuantity is returned for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrUnknownSize is returned when a product is not sold in the requested size.
	ErrUnknownSize = errors.New("size not offered for product")
)

// NewItem builds a cart line for product. An empty size picks the first size offered.
func NewItem(product catalog.Product, size string, quantity int) (Item, error) {
	if quantity < 1 {
		return Item{}, ErrInvalidQuantity
	}
	if size == "" {
		if len(product.Sizes) == 0 {
			return Item{}, fmt.Errorf("%w: product %s has no sizes", ErrUnknownSize, product.ID)
		}
		size = product.Sizes[0]
	} else if !slices.Contains(product.Sizes, size) {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownSize, size)
	}
	return Item{
		ProductID: product.ID,
		Name:      product.Name,
		Brand:     product.Brand,
		Price:     product.Price,
		Image:     product.Image,
		Size:      size,
		Quantity:  quantity,
		AddedAt:   util.NowUTC(),
	}, nil
}

// Find returns the index of the line keyed by productID and size, or -1.
func Find(items []Item, productID, size string) int {
	return slices.IndexFunc(items, func(it Item) bool {
		return it.ProductID == productID && it.Size == size
	})
}

// Add merges item into items, summing quantities on an existing line.
func Add(items []Item, item Item) []Item {
	out := slices.Clone(items)
	if i := Find(out, item.ProductID, item.Size); i >= 0 {
		out[i].Quantity += item.Quantity
		return out
	}
	return append(out, item)
}

// SetQuantity replaces a line's quantity. Zero or less removes the line.
func SetQuantity(items []Item, productID, size string, quantity int) []Item {
	if quantity <= 0 {
		return Remove(items, productID, size)
	}
	out := slices.Clone(items)
	if i := Find(out, productID, size); i >= 0 {
		out[i].Quantity = quantity
	}
	return out
}

// Remove drops the line keyed by productID and size.
func Remove(items []Item, productID, size string) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.ProductID == productID && it.Size == size {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Summarize totals quantities and line prices.
func Summarize(items []Item) Totals {
	var t Totals
	for _, it := range items {
		t.Items += it.Quantity
		t.Price += it.Price * int64(it.Quantity)
	}
	return t
}
