package activityrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/ar-shop/internal/domain/activity"
)

// MemoryRepository keeps events in process.
type MemoryRepository struct {
	mu     sync.RWMutex
	events map[int64][]activity.Event
}

// NewMemoryRepository constructs an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{events: make(map[int64][]activity.Event)}
}

func (r *MemoryRepository) Append(_ context.Context, event activity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.UserID] = append(r.events[event.UserID], event)
	return nil
}

// ListByUser returns up to limit events, newest first.
func (r *MemoryRepository) ListByUser(_ context.Context, userID int64, limit int) ([]activity.Event, error) {
	r.mu.RLock()
	events := append([]activity.Event(nil), r.events[userID]...)
	r.mu.RUnlock()

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

var _ activity.Repository = (*MemoryRepository)(nil)
