package profilerepo

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ar-shop/internal/domain/preferences"
	"github.com/yanqian/ar-shop/pkg/util"
)

type profileRecord struct {
	UserID            int64     `json:"id"`
	Email             string    `json:"email"`
	SkinToneHex       *string   `json:"skin_tone_hex,omitempty"`
	SkinToneDepth     *string   `json:"skin_tone_depth,omitempty"`
	SkinToneUndertone *string   `json:"skin_tone_undertone,omitempty"`
	StylePreferences  []string  `json:"style_preferences,omitempty"`
	ColorPreferences  []string  `json:"color_preferences"`
	BudgetMin         *int64    `json:"budget_min,omitempty"`
	BudgetMax         *int64    `json:"budget_max,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ValkeyStore keeps one JSON document per profile.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "arshop"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) GetProfile(ctx context.Context, userID int64) (preferences.Profile, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(userID)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return preferences.Profile{}, preferences.ErrProfileNotFound
		}
		return preferences.Profile{}, err
	}
	var record profileRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return preferences.Profile{}, err
	}
	return fromRecord(record), nil
}

// CreateProfile stores profile with SET NX and returns whatever is stored afterwards.
func (s *ValkeyStore) CreateProfile(ctx context.Context, profile preferences.Profile) (preferences.Profile, error) {
	now := util.NowUTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	payload, err := json.Marshal(toRecord(profile))
	if err != nil {
		return preferences.Profile{}, err
	}
	err = s.client.Do(ctx, s.client.B().Set().Key(s.key(profile.UserID)).Value(string(payload)).Nx().Build()).Error()
	if err != nil && !valkey.IsValkeyNil(err) {
		return preferences.Profile{}, err
	}
	return s.GetProfile(ctx, profile.UserID)
}

func (s *ValkeyStore) UpdateProfile(ctx context.Context, userID int64, update preferences.ProfileUpdate) (preferences.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return preferences.Profile{}, err
	}
	update.Apply(&profile)
	profile.UpdatedAt = util.NowUTC()
	payload, err := json.Marshal(toRecord(profile))
	if err != nil {
		return preferences.Profile{}, err
	}
	if err := s.client.Do(ctx, s.client.B().Set().Key(s.key(userID)).Value(string(payload)).Xx().Build()).Error(); err != nil {
		if valkey.IsValkeyNil(err) {
			return preferences.Profile{}, preferences.ErrProfileNotFound
		}
		return preferences.Profile{}, err
	}
	return profile, nil
}

func (s *ValkeyStore) key(userID int64) string {
	return s.prefix + ":profile:" + strconv.FormatInt(userID, 10)
}

func toRecord(p preferences.Profile) profileRecord {
	return profileRecord{
		UserID:            p.UserID,
		Email:             p.Email,
		SkinToneHex:       p.SkinToneHex,
		SkinToneDepth:     p.SkinToneDepth,
		SkinToneUndertone: p.SkinToneUndertone,
		StylePreferences:  p.StylePreferences,
		ColorPreferences:  p.ColorPreferences,
		BudgetMin:         p.BudgetMin,
		BudgetMax:         p.BudgetMax,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func fromRecord(r profileRecord) preferences.Profile {
	return preferences.Profile{
		UserID:            r.UserID,
		Email:             r.Email,
		SkinToneHex:       r.SkinToneHex,
		SkinToneDepth:     r.SkinToneDepth,
		SkinToneUndertone: r.SkinToneUndertone,
		StylePreferences:  r.StylePreferences,
		ColorPreferences:  r.ColorPreferences,
		BudgetMin:         r.BudgetMin,
		BudgetMax:         r.BudgetMax,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

var _ preferences.ProfileStore = (*ValkeyStore)(nil)
