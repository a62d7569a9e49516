package cart

import (
	"context"
	"time"
)

// Item is one cart line. Lines are keyed by product and size.
type Item struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Price     int64     `json:"price"`
	Image     string    `json:"image"`
	Size      string    `json:"selectedSize"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Totals summarizes a cart.
type Totals struct {
	Items int   `json:"items"`
	Price int64 `json:"price"`
}

// Store persists carts per user.
type Store interface {
	SaveItem(ctx context.Context, userID int64, item Item) error
	LoadCart(ctx context.Context, userID int64) ([]Item, error)
	RemoveItem(ctx context.Context, userID int64, productID, size string) error
	ClearCart(ctx context.Context, userID int64) error
}
