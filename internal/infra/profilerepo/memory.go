package profilerepo

import (
	"context"
	"slices"
	"sync"

	"github.com/yanqian/ar-shop/internal/domain/preferences"
	"github.com/yanqian/ar-shop/pkg/util"
)

// MemoryStore keeps profiles in process.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[int64]preferences.Profile
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[int64]preferences.Profile)}
}

func (s *MemoryStore) GetProfile(_ context.Context, userID int64) (preferences.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return preferences.Profile{}, preferences.ErrProfileNotFound
	}
	return clone(p), nil
}

// CreateProfile inserts profile, replacing nothing when one already exists.
func (s *MemoryStore) CreateProfile(_ context.Context, profile preferences.Profile) (preferences.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.profiles[profile.UserID]; ok {
		return clone(existing), nil
	}
	now := util.NowUTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	s.profiles[profile.UserID] = clone(profile)
	return clone(profile), nil
}

func (s *MemoryStore) UpdateProfile(_ context.Context, userID int64, update preferences.ProfileUpdate) (preferences.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return preferences.Profile{}, preferences.ErrProfileNotFound
	}
	update.Apply(&p)
	p.UpdatedAt = util.NowUTC()
	s.profiles[userID] = clone(p)
	return clone(p), nil
}

func clone(p preferences.Profile) preferences.Profile {
	p.StylePreferences = slices.Clone(p.StylePreferences)
	p.ColorPreferences = slices.Clone(p.ColorPreferences)
	return p
}

var _ preferences.ProfileStore = (*MemoryStore)(nil)
