package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/ar-shop/pkg/errors"
)

// Service exposes authentication workflows.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserView, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	GoogleAuthURL(ctx context.Context, state, codeChallenge string) (string, error)
	GoogleCallback(ctx context.Context, code, codeVerifier string) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
	Profile(ctx context.Context, userID int64) (UserView, error)
	Logout(ctx context.Context, userID int64) error
}

type service struct {
	cfg      Config
	repo     Repository
	profiles ProfileService
	sealer   *tokenSealer
	logger   *slog.Logger

	oidcMu       sync.Mutex
	oidcVerifier *oidc.IDTokenVerifier
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	bearerTokenType  = "Bearer"
)

// NewService constructs a Service instance. profiles may be nil, in which case account
// views carry no shopper summary.
func NewService(cfg Config, repo Repository, profiles ProfileService, logger *slog.Logger) Service {
	svc := &service{
		cfg:      cfg,
		repo:     repo,
		profiles: profiles,
		logger:   logger.With("component", "auth.service"),
	}
	if key := strings.TrimSpace(cfg.Google.TokenEncryptionKey); key != "" {
		sealer, err := newTokenSealer(key)
		if err != nil {
			svc.logger.Warn("google refresh tokens will not be stored", "error", err)
		} else {
			svc.sealer = sealer
		}
	}
	return svc
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserView, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid email address", err)
	}
	nickname := deriveNickname(email)
	if strings.TrimSpace(req.Nickname) != "" {
		if nickname, err = normalizeNickname(req.Nickname); err != nil {
			return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
		}
	}
	if err := validatePassword(req.Password); err != nil {
		return UserView{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserView{}, apperrors.Wrap(CodeAuthError, "failed to hash password", err)
	}
	user, err := s.createAccount(ctx, NewUser{Email: email, Nickname: nickname, PasswordHash: string(hashed)})
	if err != nil {
		return UserView{}, err
	}
	s.logger.Info("shopper registered", "user_id", user.ID, "provider", "password")
	return s.view(ctx, user), nil
}

// createAccount inserts the user and seeds its storefront profile. Password and Google
// sign-ups both go through here.
func (s *service) createAccount(ctx context.Context, req NewUser) (User, error) {
	_, exists, err := s.repo.UserByEmail(ctx, req.Email)
	if err != nil {
		return User{}, apperrors.Wrap(CodeAuthError, "failed to check user", err)
	}
	if exists {
		return User{}, apperrors.Wrap(CodeEmailExists, "email already registered", ErrEmailExists)
	}
	user, err := s.repo.CreateUser(ctx, req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return User{}, apperrors.Wrap(CodeEmailExists, "email already registered", err)
		}
		return User{}, apperrors.Wrap(CodeAuthError, "failed to create user", err)
	}
	s.afterSignup(ctx, user)
	return user, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "invalid email address", err)
	}
	if strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap(apperrors.CodeInvalidInput, "password cannot be empty", nil)
	}
	user, found, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap(CodeAuthError, "failed to fetch user", err)
	}
	if !found {
		return LoginResponse{}, apperrors.Wrap(CodeInvalidCredentials, "invalid email or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, apperrors.Wrap(CodeInvalidCredentials, "invalid email or password", nil)
	}
	return s.issueSession(ctx, user, false)
}

func (s *service) ValidateToken(ctx context.Context, token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token missing", nil)
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != tokenTypeAccess {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token type mismatch", nil)
	}
	return claims, nil
}

func (s *service) Profile(ctx context.Context, userID int64) (UserView, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	return s.view(ctx, user), nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (LoginResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return LoginResponse{}, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return LoginResponse{}, apperrors.Wrap(CodeInvalidToken, "token type mismatch", nil)
	}
	user, err := s.loadUser(ctx, claims.UserID)
	if err != nil {
		return LoginResponse{}, err
	}
	return s.issueSession(ctx, user, false)
}

func (s *service) loadUser(ctx context.Context, userID int64) (User, error) {
	user, found, err := s.repo.UserByID(ctx, userID)
	if err != nil {
		return User{}, apperrors.Wrap(CodeAuthError, "failed to load user", err)
	}
	if !found {
		return User{}, apperrors.Wrap(CodeUserNotFound, "user not found", nil)
	}
	return user, nil
}

func (s *service) issueSession(ctx context.Context, user User, newAccount bool) (LoginResponse, error) {
	now := time.Now()
	access, err := s.generateToken(user, tokenTypeAccess, now, s.cfg.TokenTTL)
	if err != nil {
		return LoginResponse{}, err
	}
	refresh, err := s.generateToken(user, tokenTypeRefresh, now, s.cfg.RefreshTokenTTL)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		TokenType:    bearerTokenType,
		ExpiresAt:    now.Add(s.cfg.TokenTTL).UTC(),
		NewAccount:   newAccount,
		User:         s.view(ctx, user),
	}, nil
}

func (s *service) generateToken(user User, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	claims := tokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap(CodeAuthError, "failed to sign token", err)
	}
	return signed, nil
}

func (s *service) parseToken(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token invalid", nil)
	}
	if claims.ExpiresAt == nil {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token missing expiry", nil)
	}
	if claims.ExpiresAt.Time.Before(time.Now()) {
		return Claims{}, apperrors.Wrap(CodeInvalidToken, "token expired", nil)
	}
	return Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		TokenType: claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	TokenType string `json:"type"`
}
