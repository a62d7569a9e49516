package catalogrepo

import (
	"context"
	"slices"
	"sync"

	"github.com/yanqian/ar-shop/internal/domain/catalog"
)

// MemoryRepository serves a fixed product list.
type MemoryRepository struct {
	mu       sync.RWMutex
	products []catalog.Product
}

// NewMemoryRepository constructs a repository over products, or the seed catalog when
// products is empty.
func NewMemoryRepository(products ...catalog.Product) *MemoryRepository {
	if len(products) == 0 {
		products = catalog.SeedProducts()
	}
	return &MemoryRepository{products: cloneAll(products)}
}

func (r *MemoryRepository) List(_ context.Context) ([]catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.products), nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (catalog.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			p.Sizes = slices.Clone(p.Sizes)
			return p, true, nil
		}
	}
	return catalog.Product{}, false, nil
}

func cloneAll(products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, len(products))
	for i, p := range products {
		p.Sizes = slices.Clone(p.Sizes)
		out[i] = p
	}
	return out
}

var _ catalog.Repository = (*MemoryRepository)(nil)
