// internal/customer/store_memory.go
package customer

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps customers in memory. It enforces the same unique-email
// invariant as the postgres store so tests exercise the race-loser path.
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]Customer
	byEmail   map[string]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: make(map[uuid.UUID]Customer),
		byEmail:   make(map[string]uuid.UUID),
	}
}

func (s *MemoryStore) Save(_ context.Context, c Customer) (Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(c.Email)
	if _, exists := s.byEmail[key]; exists {
		return Customer{}, ErrDuplicateEmail
	}

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	s.customers[c.ID] = c
	s.byEmail[key] = c.ID
	return c, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return s.customers[id], nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.customers[id]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return c, nil
}

// Count reports how many customers are stored. Used by tests to assert that
// failed registrations leave no rows behind.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.customers)
}
