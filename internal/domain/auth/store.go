package auth

import "context"

// AccountStore persists shopper accounts. CreateUser returns ErrEmailExists on a duplicate
// email.
type AccountStore interface {
	CreateUser(ctx context.Context, user NewUser) (User, error)
	UserByEmail(ctx context.Context, email string) (User, bool, error)
	UserByID(ctx context.Context, id int64) (User, bool, error)
}

// IdentityStore persists provider links. LinkIdentity upserts on (provider, subject) and
// keeps the stored refresh token and email when the new values are empty.
type IdentityStore interface {
	IdentityBySubject(ctx context.Context, provider, subject string) (Identity, bool, error)
	IdentityForUser(ctx context.Context, userID int64, provider string) (Identity, bool, error)
	LinkIdentity(ctx context.Context, identity Identity) (Identity, error)
}

// Repository is the full account persistence surface.
type Repository interface {
	AccountStore
	IdentityStore
}
