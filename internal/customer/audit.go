// internal/customer/audit.go
package customer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CompensationEntry is one recorded compensation action.
type CompensationEntry struct {
	CustomerID    uuid.UUID
	CorrelationID string
	Reason        string
	RecordedAt    time.Time
}

// SlogAuditLog writes compensation entries to the structured log.
type SlogAuditLog struct {
	logger *slog.Logger
}

func NewSlogAuditLog(logger *slog.Logger) *SlogAuditLog {
	return &SlogAuditLog{logger: logger}
}

func (a *SlogAuditLog) RecordCompensation(ctx context.Context, customerID uuid.UUID, correlationID, reason string) {
	a.logger.WarnContext(ctx, "compensating customer registration",
		"customer_id", customerID,
		"correlation_id", correlationID,
		"reason", reason,
	)
}

// MemoryAuditLog collects compensation entries so tests can assert on them.
type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []CompensationEntry
}

func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{}
}

func (a *MemoryAuditLog) RecordCompensation(_ context.Context, customerID uuid.UUID, correlationID, reason string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, CompensationEntry{
		CustomerID:    customerID,
		CorrelationID: correlationID,
		Reason:        reason,
		RecordedAt:    time.Now().UTC(),
	})
}

func (a *MemoryAuditLog) Entries() []CompensationEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]CompensationEntry, len(a.entries))
	copy(out, a.entries)
	return out
}
