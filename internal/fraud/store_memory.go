// internal/fraud/store_memory.go
package fraud

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps fraud check history in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records []CheckRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(_ context.Context, rec CheckRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]CheckRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []CheckRecord
	for _, rec := range s.records {
		if rec.CustomerID == customerID {
			out = append(out, rec)
		}
	}
	return out, nil
}
