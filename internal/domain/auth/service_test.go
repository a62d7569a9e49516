package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ar-shop/internal/domain/preferences"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

const testSealKey = "0123456789abcdef0123456789abcdef"

func testConfig() Config {
	return Config{
		Secret:          "test-secret",
		TokenTTL:        time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
	}
}

func googleTestConfig() Config {
	cfg := testConfig()
	cfg.Google = GoogleConfig{
		ClientID:           "client",
		ClientSecret:       "secret",
		RedirectURL:        "http://localhost:8080/api/v1/auth/google/callback",
		TokenEncryptionKey: testSealKey,
	}
	return cfg
}

func TestService_RegisterLoginAndRefresh(t *testing.T) {
	repo := newMemoryRepo()
	profiles := newStubProfiles()
	svc := NewService(testConfig(), repo, profiles, newTestLogger())

	view, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "Priya@Example.com",
		Password: "pass1234",
		Nickname: "Priya",
	})
	require.NoError(t, err)
	require.Equal(t, "priya@example.com", view.Email)
	require.Equal(t, "Priya", view.Nickname)
	require.NotZero(t, view.ID)
	require.Equal(t, []int64{view.ID}, profiles.seeded)
	require.Equal(t, &ShopperSummary{Style: preferences.DefaultStyle}, view.Shopper)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "priya@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, "Bearer", resp.TokenType)
	require.False(t, resp.NewAccount)
	require.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)
	require.Equal(t, view.Email, resp.User.Email)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, view.ID, claims.UserID)
	require.Equal(t, view.Email, claims.Email)
	require.WithinDuration(t, resp.ExpiresAt, claims.ExpiresAt, time.Second)

	_, err = svc.ValidateToken(context.Background(), resp.RefreshToken)
	require.True(t, apperrors.IsCode(err, CodeInvalidToken))

	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, resp.Token, refreshed.Token)
	require.Equal(t, "Priya", refreshed.User.Nickname)
}

func TestService_ProfileCarriesSkinTone(t *testing.T) {
	profiles := newStubProfiles()
	svc := NewService(testConfig(), newMemoryRepo(), profiles, newTestLogger())
	view, err := svc.Register(context.Background(), RegisterRequest{Email: "ana@example.com", Password: "pass1234"})
	require.NoError(t, err)

	prefs := preferences.Defaults()
	prefs.Style = "glam"
	result := skintone.Reconstruct("#b4785a", string(skintone.DepthMedium), string(skintone.UndertoneWarm))
	prefs.SkinTone = &result
	profiles.prefs[view.ID] = prefs

	got, err := svc.Profile(context.Background(), view.ID)
	require.NoError(t, err)
	require.Equal(t, &ShopperSummary{
		Style:     "glam",
		Analyzed:  true,
		Hex:       "#b4785a",
		Undertone: string(skintone.UndertoneWarm),
		Depth:     string(skintone.DepthMedium),
	}, got.Shopper)

	_, err = svc.Profile(context.Background(), 404)
	require.True(t, apperrors.IsCode(err, CodeUserNotFound))
}

func TestService_RegisterDerivesNickname(t *testing.T) {
	svc := NewService(testConfig(), newMemoryRepo(), nil, newTestLogger())

	view, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "mary.jane99@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.Equal(t, "maryjane", view.Nickname)
	require.Nil(t, view.Shopper)

	view, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "1234@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)
	require.Equal(t, "Shopper", view.Nickname)
}

func TestService_RegisterValidation(t *testing.T) {
	svc := NewService(testConfig(), newMemoryRepo(), nil, newTestLogger())

	_, err := svc.Register(context.Background(), RegisterRequest{Email: "not-an-email", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "a@example.com", Password: "short"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))

	_, err = svc.Register(context.Background(), RegisterRequest{Email: "a@example.com", Password: "pass1234", Nickname: "Way2Long"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestService_DuplicateEmail(t *testing.T) {
	svc := NewService(testConfig(), newMemoryRepo(), nil, newTestLogger())

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass1234",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RegisterRequest{
		Email:    "user@example.com",
		Password: "pass12345",
	})
	require.True(t, apperrors.IsCode(err, CodeEmailExists))
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestService_LoginRejectsWrongPassword(t *testing.T) {
	svc := NewService(testConfig(), newMemoryRepo(), nil, newTestLogger())
	_, err := svc.Register(context.Background(), RegisterRequest{Email: "user@example.com", Password: "pass1234"})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "nope12345"})
	require.True(t, apperrors.IsCode(err, CodeInvalidCredentials))

	_, err = svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "pass1234"})
	require.True(t, apperrors.IsCode(err, CodeInvalidCredentials))
}

func TestService_ProfileFailuresAreNotFatal(t *testing.T) {
	profiles := newStubProfiles()
	profiles.ensureErr = errors.New("profiles offline")
	profiles.loadErr = errors.New("profiles offline")
	svc := NewService(testConfig(), newMemoryRepo(), profiles, newTestLogger())

	view, err := svc.Register(context.Background(), RegisterRequest{Email: "user@example.com", Password: "pass1234"})
	require.NoError(t, err)
	require.Len(t, profiles.seeded, 1)
	require.Nil(t, view.Shopper)
}

func TestService_GoogleRequiresConfiguration(t *testing.T) {
	svc := NewService(testConfig(), newMemoryRepo(), nil, newTestLogger())
	_, err := svc.GoogleAuthURL(context.Background(), "state", "challenge")
	require.True(t, apperrors.IsCode(err, CodeNotConfigured))

	cfg := googleTestConfig()
	cfg.Google.TokenEncryptionKey = "short"
	svc = NewService(cfg, newMemoryRepo(), nil, newTestLogger())
	_, err = svc.GoogleAuthURL(context.Background(), "state", "challenge")
	require.True(t, apperrors.IsCode(err, CodeNotConfigured))

	svc = NewService(googleTestConfig(), newMemoryRepo(), nil, newTestLogger())
	target, err := svc.GoogleAuthURL(context.Background(), "state", "challenge")
	require.NoError(t, err)
	require.Contains(t, target, "code_challenge=challenge")
	require.Contains(t, target, "state=state")
}

func TestService_GoogleSignInCreatesShopper(t *testing.T) {
	repo := newMemoryRepo()
	profiles := newStubProfiles()
	svc := NewService(googleTestConfig(), repo, profiles, newTestLogger()).(*service)
	claims := googleClaims{Subject: "g-1", Email: "Lee@Example.com", EmailVerified: true, GivenName: "Lee Ann"}

	user, created, err := svc.signInWithGoogle(context.Background(), claims, "rt-1")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "lee@example.com", user.Email)
	require.Equal(t, "LeeAnn", user.Nickname)
	require.Equal(t, []int64{user.ID}, profiles.seeded)

	identity, found, err := repo.IdentityForUser(context.Background(), user.ID, googleProviderName)
	require.NoError(t, err)
	require.True(t, found)
	require.NotContains(t, identity.RefreshToken, "rt-1")
	plain, err := svc.sealer.open(identity.RefreshToken, "g-1")
	require.NoError(t, err)
	require.Equal(t, "rt-1", plain)

	again, created, err := svc.signInWithGoogle(context.Background(), claims, "")
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, user.ID, again.ID)
	require.Len(t, profiles.seeded, 1)
}

func TestService_GoogleSignInRefusesImplicitLinking(t *testing.T) {
	svc := NewService(googleTestConfig(), newMemoryRepo(), nil, newTestLogger()).(*service)
	_, err := svc.Register(context.Background(), RegisterRequest{Email: "lee@example.com", Password: "pass1234"})
	require.NoError(t, err)

	_, _, err = svc.signInWithGoogle(context.Background(), googleClaims{Subject: "g-2", Email: "lee@example.com", EmailVerified: true}, "")
	require.True(t, apperrors.IsCode(err, CodeLinkingDisabled))

	_, _, err = svc.signInWithGoogle(context.Background(), googleClaims{Subject: "g-3", Email: "new@example.com"}, "")
	require.True(t, apperrors.IsCode(err, CodeInvalidCredentials))
}

func TestService_LogoutRevokesGoogleToken(t *testing.T) {
	var revoked []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		revoked = append(revoked, r.PostForm.Get("token"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	prev := googleRevokeURL
	googleRevokeURL = srv.URL
	defer func() { googleRevokeURL = prev }()

	svc := NewService(googleTestConfig(), newMemoryRepo(), nil, newTestLogger()).(*service)
	user, _, err := svc.signInWithGoogle(context.Background(), googleClaims{Subject: "g-9", Email: "kim@example.com", EmailVerified: true}, "rt/+9")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), user.ID))
	require.Equal(t, []string{"rt/+9"}, revoked)

	require.NoError(t, svc.Logout(context.Background(), user.ID+1))
	require.Len(t, revoked, 1)
}

func TestTokenSealerBindsSubject(t *testing.T) {
	sealer, err := newTokenSealer(testSealKey)
	require.NoError(t, err)

	sealed, err := sealer.seal("refresh-token", "subject-a")
	require.NoError(t, err)
	require.NotContains(t, sealed, "refresh-token")

	plain, err := sealer.open(sealed, "subject-a")
	require.NoError(t, err)
	require.Equal(t, "refresh-token", plain)

	_, err = sealer.open(sealed, "subject-b")
	require.Error(t, err)
	_, err = sealer.open("garbage", "subject-a")
	require.ErrorIs(t, err, errSealedToken)

	empty, err := sealer.seal("", "subject-a")
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = newTokenSealer("short")
	require.Error(t, err)
}

func TestDeriveNickname(t *testing.T) {
	require.Equal(t, "AnaMaria", deriveNickname("Ana Maria", "ana@example.com"))
	require.Equal(t, "lee", deriveNickname("", "  ", "lee@example.com"))
	require.Equal(t, "Alexandria", deriveNickname("Alexandrianna"))
	require.Equal(t, "Shopper", deriveNickname("42", "007@example.com"))
}

func TestNewPKCE(t *testing.T) {
	first, err := NewPKCE()
	require.NoError(t, err)
	second, err := NewPKCE()
	require.NoError(t, err)
	require.NotEqual(t, first.State, second.State)
	require.NotEqual(t, first.Verifier, first.State)
	require.Equal(t, S256Challenge(first.Verifier), first.Challenge)
	// RFC 7636 appendix B.
	require.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", S256Challenge("dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubProfiles struct {
	seeded    []int64
	prefs     map[int64]preferences.Preferences
	ensureErr error
	loadErr   error
}

func newStubProfiles() *stubProfiles {
	return &stubProfiles{prefs: make(map[int64]preferences.Preferences)}
}

func (p *stubProfiles) EnsureProfile(_ context.Context, userID int64, _ string) error {
	p.seeded = append(p.seeded, userID)
	return p.ensureErr
}

func (p *stubProfiles) Load(_ context.Context, userID int64) (preferences.Preferences, error) {
	if p.loadErr != nil {
		return preferences.Preferences{}, p.loadErr
	}
	if prefs, ok := p.prefs[userID]; ok {
		return prefs, nil
	}
	return preferences.Defaults(), nil
}

type memoryRepo struct {
	users      map[int64]User
	identities []Identity
	seq        int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[int64]User)}
}

func (m *memoryRepo) CreateUser(_ context.Context, req NewUser) (User, error) {
	m.seq++
	user := User{
		ID:           m.seq,
		Email:        req.Email,
		Nickname:     req.Nickname,
		PasswordHash: req.PasswordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryRepo) UserByEmail(_ context.Context, email string) (User, bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return User{}, false, nil
}

func (m *memoryRepo) UserByID(_ context.Context, id int64) (User, bool, error) {
	user, ok := m.users[id]
	return user, ok, nil
}

func (m *memoryRepo) IdentityBySubject(_ context.Context, provider, subject string) (Identity, bool, error) {
	for _, identity := range m.identities {
		if identity.Provider == provider && identity.ProviderSubject == subject {
			return identity, true, nil
		}
	}
	return Identity{}, false, nil
}

func (m *memoryRepo) IdentityForUser(_ context.Context, userID int64, provider string) (Identity, bool, error) {
	for _, identity := range m.identities {
		if identity.UserID == userID && identity.Provider == provider {
			return identity, true, nil
		}
	}
	return Identity{}, false, nil
}

func (m *memoryRepo) LinkIdentity(_ context.Context, identity Identity) (Identity, error) {
	m.identities = append(m.identities, identity)
	return identity, nil
}
