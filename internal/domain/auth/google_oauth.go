package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

const (
	googleProviderName = "google"
	googleIssuerURL    = "https://accounts.google.com"
)

type googleClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

func (s *service) GoogleAuthURL(ctx context.Context, state, codeChallenge string) (string, error) {
	cfg, err := s.googleOAuthConfig()
	if err != nil {
		return "", err
	}
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("access_type", "offline"),
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
	return cfg.AuthCodeURL(state, opts...), nil
}

func (s *service) GoogleCallback(ctx context.Context, code, codeVerifier string) (LoginResponse, error) {
	cfg, err := s.googleOAuthConfig()
	if err != nil {
		return LoginResponse{}, err
	}
	if strings.TrimSpace(code) == "" || strings.TrimSpace(codeVerifier) == "" {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "missing oauth code or verifier", nil)
	}
	token, err := cfg.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(CodeOAuthExchange, "failed to exchange oauth code", err)
	}
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return LoginResponse{}, apperrors.Wrap(CodeOAuthExchange, "missing id_token in oauth response", nil)
	}
	claims, err := s.verifyGoogleIDToken(ctx, rawIDToken)
	if err != nil {
		return LoginResponse{}, err
	}
	user, created, err := s.signInWithGoogle(ctx, claims, token.RefreshToken)
	if err != nil {
		return LoginResponse{}, err
	}
	return s.issueSession(ctx, user, created)
}

// signInWithGoogle resolves verified Google claims to a shopper account. Unknown subjects
// create a new account through the same path as password sign-up; an existing password
// account with the same email is never linked implicitly.
func (s *service) signInWithGoogle(ctx context.Context, claims googleClaims, refreshToken string) (User, bool, error) {
	if !claims.EmailVerified {
		return User{}, false, apperrors.Wrap(CodeInvalidCredentials, "google account email not verified", nil)
	}
	if claims.Subject == "" {
		return User{}, false, apperrors.Wrap(CodeAuthError, "missing google subject", nil)
	}
	email, err := normalizeEmail(claims.Email)
	if err != nil {
		return User{}, false, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid email address", err)
	}

	identity, found, err := s.repo.IdentityBySubject(ctx, googleProviderName, claims.Subject)
	if err != nil {
		return User{}, false, apperrors.Wrap(CodeAuthError, "failed to fetch identity", err)
	}
	if found {
		user, err := s.loadUser(ctx, identity.UserID)
		if err != nil {
			return User{}, false, err
		}
		if refreshToken != "" {
			if err := s.linkGoogle(ctx, user.ID, claims, refreshToken); err != nil {
				return User{}, false, err
			}
		}
		return user, false, nil
	}

	passwordHash, err := unusablePasswordHash()
	if err != nil {
		return User{}, false, apperrors.Wrap(CodeAuthError, "failed to generate password hash", err)
	}
	user, err := s.createAccount(ctx, NewUser{
		Email:        email,
		Nickname:     deriveNickname(claims.GivenName, claims.Name, email),
		PasswordHash: passwordHash,
	})
	if apperrors.IsCode(err, CodeEmailExists) {
		return User{}, false, apperrors.Wrap(CodeLinkingDisabled, "account linking by email is not enabled", nil)
	}
	if err != nil {
		return User{}, false, err
	}
	if err := s.linkGoogle(ctx, user.ID, claims, refreshToken); err != nil {
		return User{}, false, err
	}
	s.logger.Info("shopper registered", "user_id", user.ID, "provider", googleProviderName)
	return user, true, nil
}

// Logout revokes the stored Google refresh token, if any. Revocation failures are logged
// and never block the local sign-out.
func (s *service) Logout(ctx context.Context, userID int64) error {
	identity, found, err := s.repo.IdentityForUser(ctx, userID, googleProviderName)
	if err != nil {
		return apperrors.Wrap(CodeAuthError, "failed to fetch identity", err)
	}
	if !found || identity.RefreshToken == "" || s.sealer == nil {
		return nil
	}
	refreshToken, err := s.sealer.open(identity.RefreshToken, identity.ProviderSubject)
	if err != nil {
		s.logger.Warn("failed to open google refresh token", "user_id", userID, "error", err)
		return nil
	}
	if err := revokeGoogleToken(ctx, refreshToken); err != nil {
		s.logger.Warn("failed to revoke google refresh token", "user_id", userID, "error", err)
	}
	return nil
}

func (s *service) googleOAuthConfig() (*oauth2.Config, error) {
	googleCfg := s.cfg.Google
	if strings.TrimSpace(googleCfg.ClientID) == "" || strings.TrimSpace(googleCfg.ClientSecret) == "" || strings.TrimSpace(googleCfg.RedirectURL) == "" {
		return nil, apperrors.Wrap(CodeNotConfigured, "google oauth is not configured", nil)
	}
	if s.sealer == nil {
		return nil, apperrors.Wrap(CodeNotConfigured, "google token encryption key is missing or invalid", nil)
	}
	return &oauth2.Config{
		ClientID:     googleCfg.ClientID,
		ClientSecret: googleCfg.ClientSecret,
		RedirectURL:  googleCfg.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}, nil
}

// googleVerifier discovers Google's signing keys once. A failed discovery is retried on the
// next sign-in.
func (s *service) googleVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	s.oidcMu.Lock()
	defer s.oidcMu.Unlock()
	if s.oidcVerifier != nil {
		return s.oidcVerifier, nil
	}
	provider, err := oidc.NewProvider(ctx, googleIssuerURL)
	if err != nil {
		return nil, apperrors.Wrap(CodeAuthError, "failed to initialize oidc provider", err)
	}
	s.oidcVerifier = provider.Verifier(&oidc.Config{ClientID: s.cfg.Google.ClientID})
	return s.oidcVerifier, nil
}

func (s *service) verifyGoogleIDToken(ctx context.Context, rawToken string) (googleClaims, error) {
	verifier, err := s.googleVerifier(ctx)
	if err != nil {
		return googleClaims{}, err
	}
	idToken, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return googleClaims{}, apperrors.Wrap(CodeInvalidToken, "failed to verify id token", err)
	}
	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return googleClaims{}, apperrors.Wrap(CodeInvalidToken, "failed to parse id token claims", err)
	}
	if claims.Email == "" {
		return googleClaims{}, apperrors.Wrap(CodeInvalidToken, "missing email in id token", nil)
	}
	return claims, nil
}

func (s *service) linkGoogle(ctx context.Context, userID int64, claims googleClaims, refreshToken string) error {
	sealed, err := s.sealer.seal(refreshToken, claims.Subject)
	if err != nil {
		return apperrors.Wrap(CodeAuthError, "failed to encrypt refresh token", err)
	}
	_, err = s.repo.LinkIdentity(ctx, Identity{
		UserID:          userID,
		Provider:        googleProviderName,
		ProviderSubject: claims.Subject,
		ProviderEmail:   claims.Email,
		RefreshToken:    sealed,
	})
	if err != nil {
		return apperrors.Wrap(CodeAuthError, "failed to persist identity", err)
	}
	return nil
}

// unusablePasswordHash gives provider-only accounts a hash no password can match.
func unusablePasswordHash() (string, error) {
	raw, err := randomToken(32)
	if err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

var googleRevokeURL = "https://oauth2.googleapis.com/revoke"

func revokeGoogleToken(ctx context.Context, refreshToken string) error {
	form := url.Values{"token": {refreshToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleRevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("google revoke returned status %d", resp.StatusCode)
}
