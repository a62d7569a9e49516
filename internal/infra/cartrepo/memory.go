package cartrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/yanqian/ar-shop/internal/domain/cart"
)

type lineKey struct {
	productID string
	size      string
}

// MemoryStore keeps carts in process.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[int64]map[lineKey]cart.Item
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[int64]map[lineKey]cart.Item)}
}

// SaveItem upserts a line. The first AddedAt is kept.
func (s *MemoryStore) SaveItem(_ context.Context, userID int64, item cart.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, ok := s.carts[userID]
	if !ok {
		lines = make(map[lineKey]cart.Item)
		s.carts[userID] = lines
	}
	key := lineKey{item.ProductID, item.Size}
	if existing, ok := lines[key]; ok {
		item.AddedAt = existing.AddedAt
	}
	lines[key] = item
	return nil
}

// LoadCart returns lines newest first.
func (s *MemoryStore) LoadCart(_ context.Context, userID int64) ([]cart.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]cart.Item, 0, len(s.carts[userID]))
	for _, it := range s.carts[userID] {
		items = append(items, it)
	}
	sortNewestFirst(items)
	return items, nil
}

func (s *MemoryStore) RemoveItem(_ context.Context, userID int64, productID, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts[userID], lineKey{productID, size})
	return nil
}

func (s *MemoryStore) ClearCart(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

func sortNewestFirst(items []cart.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].AddedAt.Equal(items[j].AddedAt) {
			if items[i].ProductID == items[j].ProductID {
				return items[i].Size < items[j].Size
			}
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].AddedAt.After(items[j].AddedAt)
	})
}

var _ cart.Store = (*MemoryStore)(nil)
