// internal/customer/store.go
package customer

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by lookups for customers that do not exist.
	ErrNotFound = errors.New("customer not found")

	// ErrDuplicateEmail is returned by Save when the unique-email constraint
	// is violated. Concurrent registrations with the same email race at the
	// storage layer; the loser must be able to tell this apart from other
	// storage failures.
	ErrDuplicateEmail = errors.New("email is already registered")
)

// Store is the persistence port for customers. Save is the only mutating
// operation in the registration workflow.
type Store interface {
	Save(ctx context.Context, c Customer) (Customer, error)
	FindByEmail(ctx context.Context, email string) (Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (Customer, error)
}
