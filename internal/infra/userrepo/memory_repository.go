package userrepo

import (
	"context"
	"errors"
	"sync"

	"github.com/yanqian/ar-shop/internal/domain/auth"
	"github.com/yanqian/ar-shop/pkg/util"
)

type subjectKey struct {
	provider string
	subject  string
}

type ownerKey struct {
	provider string
	userID   int64
}

// MemoryRepository keeps shoppers in process for development and tests.
type MemoryRepository struct {
	mu         sync.RWMutex
	users      map[int64]auth.User
	byEmail    map[string]int64
	identities map[subjectKey]auth.Identity
	byOwner    map[ownerKey]subjectKey
	userSeq    int64
	identSeq   int64
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:      make(map[int64]auth.User),
		byEmail:    make(map[string]int64),
		identities: make(map[subjectKey]auth.Identity),
		byOwner:    make(map[ownerKey]subjectKey),
	}
}

func (r *MemoryRepository) CreateUser(_ context.Context, req auth.NewUser) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[req.Email]; exists {
		return auth.User{}, auth.ErrEmailExists
	}
	r.userSeq++
	user := auth.User{
		ID:           r.userSeq,
		Email:        req.Email,
		Nickname:     req.Nickname,
		PasswordHash: req.PasswordHash,
		CreatedAt:    util.NowUTC(),
	}
	r.users[user.ID] = user
	r.byEmail[req.Email] = user.ID
	return user, nil
}

func (r *MemoryRepository) UserByEmail(_ context.Context, email string) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return auth.User{}, false, nil
	}
	return r.users[id], true, nil
}

func (r *MemoryRepository) UserByID(_ context.Context, id int64) (auth.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	return user, ok, nil
}

func (r *MemoryRepository) IdentityBySubject(_ context.Context, provider, providerSubject string) (auth.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.identities[subjectKey{provider, providerSubject}]
	return identity, ok, nil
}

func (r *MemoryRepository) IdentityForUser(_ context.Context, userID int64, provider string) (auth.Identity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.byOwner[ownerKey{provider, userID}]
	if !ok {
		return auth.Identity{}, false, nil
	}
	return r.identities[key], true, nil
}

// LinkIdentity links a provider subject to a user. Empty refresh tokens and emails keep
// the stored values.
func (r *MemoryRepository) LinkIdentity(_ context.Context, identity auth.Identity) (auth.Identity, error) {
	if identity.UserID == 0 {
		return auth.Identity{}, errors.New("userID is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subjectKey{identity.Provider, identity.ProviderSubject}
	now := util.NowUTC()
	if existing, ok := r.identities[key]; ok {
		if identity.RefreshToken != "" {
			existing.RefreshToken = identity.RefreshToken
		}
		if identity.ProviderEmail != "" {
			existing.ProviderEmail = identity.ProviderEmail
		}
		existing.UpdatedAt = now
		r.identities[key] = existing
		return existing, nil
	}
	r.identSeq++
	identity.ID = r.identSeq
	identity.CreatedAt = now
	identity.UpdatedAt = now
	r.identities[key] = identity
	r.byOwner[ownerKey{identity.Provider, identity.UserID}] = key
	return identity, nil
}

var _ auth.Repository = (*MemoryRepository)(nil)
