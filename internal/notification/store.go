// internal/notification/store.go
package notification

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by lookups for notifications that do not exist.
	ErrNotFound = errors.New("notification not found")

	// ErrDuplicateKey is returned by Save when the idempotency key is already
	// taken. This is the constraint-violation half of the two-layer duplicate
	// defense; the read-check alone has a race window under concurrent
	// redelivery.
	ErrDuplicateKey = errors.New("notification already recorded for idempotency key")
)

// Store is the persistence port for notifications.
type Store interface {
	Save(ctx context.Context, n Notification) error
	FindByIdempotencyKey(ctx context.Context, key string) (Notification, error)
	Count(ctx context.Context) (int, error)
}
