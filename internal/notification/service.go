// internal/notification/service.go
package notification

import "context"

// Deliverer performs the actual outbound delivery (email, SMS). It is an
// external collaborator; the default implementation only logs.
type Deliverer interface {
	Deliver(ctx context.Context, n Notification) error
}

// Service defines the interface for the notification service.
type Service interface {
	Send(ctx context.Context, req Request) error
}
