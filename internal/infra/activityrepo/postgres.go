package activityrepo

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ar-shop/internal/domain/activity"
)

// PostgresRepository stores events in ar_sessions.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Append inserts an event. Replayed events with a known id are ignored.
func (r *PostgresRepository) Append(ctx context.Context, event activity.Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO ar_sessions (id, user_id, product_id, action, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, event.ID, event.UserID, event.ProductID, event.Action, data, event.CreatedAt)
	return err
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]activity.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, product_id, action, data, created_at
		FROM ar_sessions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]activity.Event, 0, limit)
	for rows.Next() {
		var (
			event activity.Event
			raw   []byte
		)
		if err := rows.Scan(&event.ID, &event.UserID, &event.ProductID, &event.Action, &raw, &event.CreatedAt); err != nil {
			return nil, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &event.Data); err != nil {
				return nil, err
			}
		}
		event.CreatedAt = event.CreatedAt.UTC()
		events = append(events, event)
	}
	return events, rows.Err()
}

var _ activity.Repository = (*PostgresRepository)(nil)
