// internal/fraud/service.go
package fraud

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence port for fraud check history.
type Store interface {
	Save(ctx context.Context, rec CheckRecord) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]CheckRecord, error)
}

// Service defines the interface for the fraud service.
type Service interface {
	CheckCustomer(ctx context.Context, customerID uuid.UUID) (bool, error)
}
