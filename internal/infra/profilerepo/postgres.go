package profilerepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ar-shop/internal/domain/preferences"
)

const profileColumns = `id, email, skin_tone_hex, skin_tone_depth, skin_tone_undertone,
	style_preferences, color_preferences, budget_min, budget_max, created_at, updated_at`

// PostgresStore persists profiles in user_profiles.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID int64) (preferences.Profile, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM user_profiles WHERE id = $1`, userID)
	return scanProfile(row)
}

// CreateProfile inserts a row. An existing row is returned untouched.
func (s *PostgresStore) CreateProfile(ctx context.Context, p preferences.Profile) (preferences.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (id, email, skin_tone_hex, skin_tone_depth, skin_tone_undertone,
			style_preferences, color_preferences, budget_min, budget_max)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET id = user_profiles.id
		RETURNING `+profileColumns,
		p.UserID, p.Email, p.SkinToneHex, p.SkinToneDepth, p.SkinToneUndertone,
		p.StylePreferences, p.ColorPreferences, p.BudgetMin, p.BudgetMax)
	return scanProfile(row)
}

// UpdateProfile writes the non-nil fields of update.
func (s *PostgresStore) UpdateProfile(ctx context.Context, userID int64, u preferences.ProfileUpdate) (preferences.Profile, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE user_profiles SET
			email = COALESCE($2, email),
			skin_tone_hex = COALESCE($3, skin_tone_hex),
			skin_tone_depth = COALESCE($4, skin_tone_depth),
			skin_tone_undertone = COALESCE($5, skin_tone_undertone),
			style_preferences = COALESCE($6, style_preferences),
			color_preferences = COALESCE($7, color_preferences),
			budget_min = COALESCE($8, budget_min),
			budget_max = COALESCE($9, budget_max),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+profileColumns,
		userID, u.Email, u.SkinToneHex, u.SkinToneDepth, u.SkinToneUndertone,
		u.StylePreferences, u.ColorPreferences, u.BudgetMin, u.BudgetMax)
	return scanProfile(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (preferences.Profile, error) {
	var p preferences.Profile
	err := row.Scan(
		&p.UserID,
		&p.Email,
		&p.SkinToneHex,
		&p.SkinToneDepth,
		&p.SkinToneUndertone,
		&p.StylePreferences,
		&p.ColorPreferences,
		&p.BudgetMin,
		&p.BudgetMax,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return preferences.Profile{}, preferences.ErrProfileNotFound
	}
	if err != nil {
		return preferences.Profile{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

var _ preferences.ProfileStore = (*PostgresStore)(nil)
