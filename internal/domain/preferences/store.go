package preferences

import (
	"context"
	"errors"
)

// ErrProfileNotFound is returned by stores when no row exists for a user.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileStore persists user profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID int64) (Profile, error)
	CreateProfile(ctx context.Context, profile Profile) (Profile, error)
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (Profile, error)
}
