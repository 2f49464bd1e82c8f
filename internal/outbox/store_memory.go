// internal/outbox/store_memory.go
package outbox

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps outbox records in append order.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	byID    map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

func (s *MemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rec.EventID]; exists {
		return ErrDuplicateEvent
	}
	s.byID[rec.EventID] = len(s.records)
	s.records = append(s.records, rec)
	return nil
}

func (s *MemoryStore) FetchUnprocessed(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, rec := range s.records {
		if rec.Processed {
			continue
		}
		out = append(out, rec)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkProcessed(_ context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[eventID]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	s.records[idx].Processed = true
	s.records[idx].ProcessedAt = &now
	return nil
}

// All returns a snapshot of every record, processed or not. Test helper.
func (s *MemoryStore) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}
