// internal/customer/service.go
package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrRateLimited is returned when the registration rate limiter rejects a
// request before any side effect is performed.
var ErrRateLimited = errors.New("rate limit exceeded")

// Service defines the interface for the customer service.
type Service interface {
	RegisterCustomer(ctx context.Context, req RegistrationRequest) (*Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
}

// EventPublisher is the port for durable registration event emission. A
// publish failure never fails the registration.
type EventPublisher interface {
	Publish(ctx context.Context, event RegisteredEvent) error
}

// AuditLog records compensation actions. Fraud compensation is an audit
// entry, never a delete: the customer row survives for traceability.
type AuditLog interface {
	RecordCompensation(ctx context.Context, customerID uuid.UUID, correlationID, reason string)
}
