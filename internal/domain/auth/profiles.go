package auth

import (
	"context"

	"github.com/yanqian/ar-shop/internal/domain/preferences"
)

// ProfileService is the slice of the preferences service accounts depend on.
// preferences.Service satisfies it.
type ProfileService interface {
	EnsureProfile(ctx context.Context, userID int64, email string) error
	Load(ctx context.Context, userID int64) (preferences.Preferences, error)
}

// afterSignup seeds an empty storefront profile. Failures are logged; the account exists
// either way and the profile is created lazily on first save.
func (s *service) afterSignup(ctx context.Context, user User) {
	if s.profiles == nil {
		return
	}
	if err := s.profiles.EnsureProfile(ctx, user.ID, user.Email); err != nil {
		s.logger.Warn("failed to create profile for new user", "user_id", user.ID, "error", err)
	}
}

func (s *service) view(ctx context.Context, user User) UserView {
	view := UserView{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		CreatedAt: user.CreatedAt,
	}
	if s.profiles == nil {
		return view
	}
	prefs, err := s.profiles.Load(ctx, user.ID)
	if err != nil {
		s.logger.Warn("failed to load shopper profile", "user_id", user.ID, "error", err)
		return view
	}
	view.Shopper = summarize(prefs)
	return view
}

func summarize(prefs preferences.Preferences) *ShopperSummary {
	summary := &ShopperSummary{Style: prefs.Style}
	if tone := prefs.SkinTone; tone != nil {
		summary.Analyzed = true
		summary.Hex = tone.Hex
		summary.Undertone = string(tone.Undertone)
		summary.Depth = string(tone.Depth)
	}
	return summary
}
