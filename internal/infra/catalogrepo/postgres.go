package catalogrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ar-shop/internal/domain/catalog"
)

const productColumns = `id, name, price, category, color, sizes, model3d, image, description,
	personality_match, brand, rating, reviews`

// PostgresRepository reads the catalog from the products table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns products in catalog order.
func (r *PostgresRepository) List(ctx context.Context) ([]catalog.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []catalog.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get fetches one product.
func (r *PostgresRepository) Get(ctx context.Context, id string) (catalog.Product, bool, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.Product{}, false, nil
	}
	if err != nil {
		return catalog.Product{}, false, err
	}
	return p, true, nil
}

// Seed inserts products that are not stored yet, keeping their order.
func (r *PostgresRepository) Seed(ctx context.Context, products []catalog.Product) error {
	batch := &pgx.Batch{}
	for i, p := range products {
		batch.Queue(`
			INSERT INTO products (id, name, price, category, color, sizes, model3d, image, description,
				personality_match, brand, rating, reviews, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			ON CONFLICT (id) DO NOTHING
		`, p.ID, p.Name, p.Price, string(p.Category), p.Color, p.Sizes, p.Model3D, p.Image, p.Description,
			p.PersonalityMatch, p.Brand, p.Rating, p.Reviews, i)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for i := range products {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].ID, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (catalog.Product, error) {
	var (
		p        catalog.Product
		category string
	)
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&category,
		&p.Color,
		&p.Sizes,
		&p.Model3D,
		&p.Image,
		&p.Description,
		&p.PersonalityMatch,
		&p.Brand,
		&p.Rating,
		&p.Reviews,
	); err != nil {
		return catalog.Product{}, err
	}
	p.Category = catalog.Category(category)
	return p, nil
}

var _ catalog.Repository = (*PostgresRepository)(nil)
