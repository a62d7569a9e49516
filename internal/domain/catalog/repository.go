package catalog

import "context"

// Repository abstracts product persistence.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
}
