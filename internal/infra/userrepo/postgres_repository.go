package userrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ar-shop/internal/domain/auth"
)

const uniqueViolation = "23505"

// PostgresRepository persists shoppers and their linked identities.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// CreateUser inserts a new user row.
func (r *PostgresRepository) CreateUser(ctx context.Context, req auth.NewUser) (auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, nickname, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, nickname, password_hash, created_at
	`, req.Email, req.Nickname, req.PasswordHash)
	user, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.User{}, auth.ErrEmailExists
		}
		return auth.User{}, err
	}
	return user, nil
}

// UserByEmail fetches a user by email.
func (r *PostgresRepository) UserByEmail(ctx context.Context, email string) (auth.User, bool, error) {
	return r.getUser(ctx, `
		SELECT id, email, nickname, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)
}

// UserByID fetches by primary key.
func (r *PostgresRepository) UserByID(ctx context.Context, id int64) (auth.User, bool, error) {
	return r.getUser(ctx, `
		SELECT id, email, nickname, password_hash, created_at
		FROM users
		WHERE id = $1
	`, id)
}

func (r *PostgresRepository) getUser(ctx context.Context, query string, arg any) (auth.User, bool, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, false, nil
	}
	if err != nil {
		return auth.User{}, false, err
	}
	return user, true, nil
}

// IdentityBySubject returns the identity linked to a provider subject.
func (r *PostgresRepository) IdentityBySubject(ctx context.Context, provider, providerSubject string) (auth.Identity, bool, error) {
	return r.getIdentity(ctx, `
		SELECT id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
		FROM user_identities
		WHERE provider = $1 AND provider_subject = $2
	`, provider, providerSubject)
}

// IdentityForUser returns the provider identity of a user.
func (r *PostgresRepository) IdentityForUser(ctx context.Context, userID int64, provider string) (auth.Identity, bool, error) {
	return r.getIdentity(ctx, `
		SELECT id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
		FROM user_identities
		WHERE user_id = $1 AND provider = $2
		ORDER BY updated_at DESC
		LIMIT 1
	`, userID, provider)
}

func (r *PostgresRepository) getIdentity(ctx context.Context, query string, args ...any) (auth.Identity, bool, error) {
	identity, err := scanIdentity(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.Identity{}, false, nil
	}
	if err != nil {
		return auth.Identity{}, false, err
	}
	return identity, true, nil
}

// LinkIdentity links a provider subject to a user. Empty refresh tokens and emails keep
// the stored values.
func (r *PostgresRepository) LinkIdentity(ctx context.Context, identity auth.Identity) (auth.Identity, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO user_identities (user_id, provider, provider_subject, provider_email, refresh_token)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_subject) DO UPDATE SET
			provider_email = COALESCE(NULLIF(EXCLUDED.provider_email, ''), user_identities.provider_email),
			refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), user_identities.refresh_token),
			updated_at = NOW()
		RETURNING id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
	`, identity.UserID, identity.Provider, identity.ProviderSubject, identity.ProviderEmail, identity.RefreshToken)
	return scanIdentity(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.User, error) {
	var user auth.User
	var created time.Time
	if err := row.Scan(&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &created); err != nil {
		return auth.User{}, err
	}
	user.CreatedAt = created.UTC()
	return user, nil
}

func scanIdentity(row rowScanner) (auth.Identity, error) {
	var identity auth.Identity
	if err := row.Scan(
		&identity.ID,
		&identity.UserID,
		&identity.Provider,
		&identity.ProviderSubject,
		&identity.ProviderEmail,
		&identity.RefreshToken,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	); err != nil {
		return auth.Identity{}, err
	}
	identity.CreatedAt = identity.CreatedAt.UTC()
	identity.UpdatedAt = identity.UpdatedAt.UTC()
	return identity, nil
}

var _ auth.Repository = (*PostgresRepository)(nil)
