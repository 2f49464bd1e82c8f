// internal/outbox/outbox.go
package outbox

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateEvent is returned when a record with the same event id has
// already been appended.
var ErrDuplicateEvent = errors.New("outbox event already recorded")

// Record is one durable outbox entry. Events are appended alongside the
// business data that produced them and forwarded to the message channel by
// the relay, decoupling commit from delivery.
type Record struct {
	EventID       string
	EventType     string
	AggregateID   string
	Payload       []byte
	CorrelationID string
	OccurredAt    time.Time
	Processed     bool
	ProcessedAt   *time.Time
}

// Store is the persistence port for outbox records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	FetchUnprocessed(ctx context.Context, limit int) ([]Record, error)
	MarkProcessed(ctx context.Context, eventID string) error
}
