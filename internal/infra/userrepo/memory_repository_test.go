package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ar-shop/internal/domain/auth"
)

func TestMemoryRepositoryRejectsDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, auth.NewUser{Email: "a@example.com", Nickname: "Ana", PasswordHash: "hash"})
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)

	_, err = repo.CreateUser(ctx, auth.NewUser{Email: "a@example.com", Nickname: "Ana", PasswordHash: "hash"})
	require.ErrorIs(t, err, auth.ErrEmailExists)

	found, ok, err := repo.UserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, user, found)
}

func TestMemoryRepositoryLinkIdentityKeepsToken(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	first, err := repo.LinkIdentity(ctx, auth.Identity{UserID: 3, Provider: "google", ProviderSubject: "sub", RefreshToken: "enc"})
	require.NoError(t, err)

	second, err := repo.LinkIdentity(ctx, auth.Identity{UserID: 3, Provider: "google", ProviderSubject: "sub", ProviderEmail: "b@example.com"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "enc", second.RefreshToken)

	byUser, ok, err := repo.IdentityForUser(ctx, 3, "google")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b@example.com", byUser.ProviderEmail)

	_, err = repo.LinkIdentity(ctx, auth.Identity{Provider: "google", ProviderSubject: "x"})
	require.Error(t, err)
}
