// internal/notification/store_memory.go
package notification

import (
	"context"
	"sync"
)

// MemoryStore keeps notifications in memory with the same idempotency-key
// uniqueness the postgres store enforces.
type MemoryStore struct {
	mu    sync.RWMutex
	byKey map[string]Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byKey: make(map[string]Notification)}
}

func (s *MemoryStore) Save(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byKey[n.IdempotencyKey]; exists {
		return ErrDuplicateKey
	}
	s.byKey[n.IdempotencyKey] = n
	return nil
}

func (s *MemoryStore) FindByIdempotencyKey(_ context.Context, key string) (Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.byKey[key]
	if !ok {
		return Notification{}, ErrNotFound
	}
	return n, nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byKey), nil
}
