// internal/customer/domain.go
package customer

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Customer represents a registered customer. The ID is assigned by the store
// on save; an unsaved customer carries uuid.Nil.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RegistrationRequest is the transient input to the registration workflow.
// It is never persisted directly.
type RegistrationRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// ToCustomer builds an unsaved Customer from the request.
func (r RegistrationRequest) ToCustomer() Customer {
	return Customer{
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     strings.TrimSpace(r.Email),
	}
}

// RegisteredEvent is published when a customer is successfully registered.
// Immutable once created; the delivery channel may redeliver it, so consumers
// must be idempotent.
type RegisteredEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	CustomerID    uuid.UUID `json:"customer_id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	CorrelationID string    `json:"correlation_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// EventTypeRegistered tags every RegisteredEvent.
const EventTypeRegistered = "CUSTOMER_REGISTERED"

// NewRegisteredEvent stamps a fresh event id and occurrence time.
func NewRegisteredEvent(c Customer, correlationID string) RegisteredEvent {
	return RegisteredEvent{
		EventID:       uuid.NewString(),
		EventType:     EventTypeRegistered,
		CustomerID:    c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Email:         c.Email,
		CorrelationID: correlationID,
		OccurredAt:    time.Now().UTC(),
	}
}

// ValidationError accumulates every failed business rule for one request.
// Reasons keep rule evaluation order so callers see a stable message.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Reasons, ", ")
}

// FraudError signals that registration was blocked by fraud detection. The
// already-persisted customer id is carried for traceability; the row is
// retained, never deleted.
type FraudError struct {
	CustomerID uuid.UUID
}

func (e *FraudError) Error() string {
	return "Customer registration blocked due to fraud detection"
}
