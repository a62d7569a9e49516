package cartrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ar-shop/internal/domain/cart"
)

// PostgresStore persists carts in cart_items.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// SaveItem upserts on (user_id, product_id, size). created_at is kept on conflict.
func (s *PostgresStore) SaveItem(ctx context.Context, userID int64, item cart.Item) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO cart_items (user_id, product_id, name, brand, price, image, size, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, product_id, size) DO UPDATE SET
			name = EXCLUDED.name,
			brand = EXCLUDED.brand,
			price = EXCLUDED.price,
			image = EXCLUDED.image,
			quantity = EXCLUDED.quantity,
			updated_at = NOW()
	`, userID, item.ProductID, item.Name, item.Brand, item.Price, item.Image, item.Size, item.Quantity, item.AddedAt)
	return err
}

// LoadCart returns lines newest first.
func (s *PostgresStore) LoadCart(ctx context.Context, userID int64) ([]cart.Item, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT product_id, name, brand, price, image, size, quantity, created_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at DESC, product_id, size
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]cart.Item, 0)
	for rows.Next() {
		var it cart.Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Brand, &it.Price, &it.Image, &it.Size, &it.Quantity, &it.AddedAt); err != nil {
			return nil, err
		}
		it.AddedAt = it.AddedAt.UTC()
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *PostgresStore) RemoveItem(ctx context.Context, userID int64, productID, size string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2 AND size = $3`, userID, productID, size)
	return err
}

func (s *PostgresStore) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}

var _ cart.Store = (*PostgresStore)(nil)
