package objectstore

import (
	"context"
	"slices"
	"sync"
)

// Object is a stored blob.
type Object struct {
	Data     []byte
	MimeType string
}

// MemoryStore keeps snapshots in process.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

// Put stores data under key and returns the key.
func (s *MemoryStore) Put(_ context.Context, key string, data []byte, mimeType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{Data: slices.Clone(data), MimeType: mimeType}
	return key, nil
}

// Lookup returns a stored object.
func (s *MemoryStore) Lookup(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}
