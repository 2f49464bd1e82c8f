// internal/customer/publisher.go
package customer

import (
	"context"
	"encoding/json"
	"fmt"

	"veriboard/internal/notification"
	"veriboard/internal/outbox"
)

// welcomeMessage greets a newly registered customer by first name.
const welcomeMessage = "Hi %s, welcome to VeriBoard! We're excited to have you on board."

// OutboxPublisher records registration events durably in the outbox. The
// relay forwards them to the message channel later, so registration success
// never depends on broker availability.
type OutboxPublisher struct {
	store outbox.Store
}

func NewOutboxPublisher(store outbox.Store) *OutboxPublisher {
	return &OutboxPublisher{store: store}
}

// Publish appends the event's notification payload to the outbox. The
// payload already carries the queue contract so the relay can forward it
// verbatim.
func (p *OutboxPublisher) Publish(ctx context.Context, event RegisteredEvent) error {
	payload, err := json.Marshal(notification.Request{
		ToCustomerID:    event.CustomerID,
		ToCustomerEmail: event.Email,
		Message:         fmt.Sprintf(welcomeMessage, event.FirstName),
	})
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}

	err = p.store.Append(ctx, outbox.Record{
		EventID:       event.EventID,
		EventType:     event.EventType,
		AggregateID:   event.CustomerID.String(),
		Payload:       payload,
		CorrelationID: event.CorrelationID,
		OccurredAt:    event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("append registration event: %w", err)
	}
	return nil
}
