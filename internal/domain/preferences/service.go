package preferences

import (
	"context"
	"errors"
	"log/slog"

	"github.com/yanqian/ar-shop/internal/domain/skintone"
	apperrors "github.com/yanqian/ar-shop/pkg/errors"
	"github.com/yanqian/ar-shop/pkg/util"
)

// Service loads and persists shopper preferences.
type Service interface {
	Load(ctx context.Context, userID int64) (Preferences, error)
	Save(ctx context.Context, userID int64, email string, prefs Preferences) (Preferences, error)
	SaveAnalysis(ctx context.Context, userID int64, email string, result skintone.Result) error
	EnsureProfile(ctx context.Context, userID int64, email string) error
}

type service struct {
	store  ProfileStore
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(store ProfileStore, logger *slog.Logger) Service {
	return &service{
		store:  store,
		logger: logger.With("component", "preferences.service"),
	}
}

func (s *service) Load(ctx context.Context, userID int64) (Preferences, error) {
	if userID <= 0 {
		return Defaults(), nil
	}
	profile, err := s.store.GetProfile(ctx, userID)
	if errors.Is(err, ErrProfileNotFound) {
		return Defaults(), nil
	}
	if err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodeStorage, "failed to load preferences", err)
	}
	return FromProfile(profile), nil
}

func (s *service) Save(ctx context.Context, userID int64, email string, prefs Preferences) (Preferences, error) {
	if userID <= 0 {
		return Preferences{}, apperrors.Wrap(apperrors.CodeUnauthorized, "preferences require a signed-in user", nil)
	}
	if err := prefs.Validate(); err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodeInvalidInput, err.Error(), nil)
	}
	if err := s.upsert(ctx, userID, email, ToUpdate(email, prefs)); err != nil {
		return Preferences{}, apperrors.Wrap(apperrors.CodeStorage, "failed to save preferences", err)
	}
	s.logger.Info("preferences saved", "user_id", userID, "style", prefs.Style, "skin_tone", prefs.SkinTone != nil)
	return prefs.Clone(), nil
}

func (s *service) SaveAnalysis(ctx context.Context, userID int64, email string, result skintone.Result) error {
	if userID <= 0 {
		return apperrors.Wrap(apperrors.CodeUnauthorized, "preferences require a signed-in user", nil)
	}
	if err := s.upsert(ctx, userID, email, AnalysisUpdate(email, result)); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to save skin tone analysis", err)
	}
	return nil
}

func (s *service) EnsureProfile(ctx context.Context, userID int64, email string) error {
	_, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to load profile", err)
	}
	now := util.NowUTC()
	if _, err := s.store.CreateProfile(ctx, Profile{UserID: userID, Email: email, CreatedAt: now, UpdatedAt: now}); err != nil {
		return apperrors.Wrap(apperrors.CodeStorage, "failed to create profile", err)
	}
	return nil
}

func (s *service) upsert(ctx context.Context, userID int64, email string, update ProfileUpdate) error {
	_, err := s.store.UpdateProfile(ctx, userID, update)
	if !errors.Is(err, ErrProfileNotFound) {
		return err
	}
	now := util.NowUTC()
	profile := Profile{UserID: userID, Email: email, CreatedAt: now, UpdatedAt: now}
	update.Apply(&profile)
	_, err = s.store.CreateProfile(ctx, profile)
	return err
}
