// internal/fraud/domain.go
package fraud

import (
	"time"

	"github.com/google/uuid"
)

// CheckRecord is one fraud check verdict, kept as history independently of
// the caller's workflow.
type CheckRecord struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	IsFraudster bool      `json:"is_fraudster"`
	CreatedAt   time.Time `json:"created_at"`
}

// CheckResponse is the RPC contract returned to callers.
type CheckResponse struct {
	IsFraudster bool `json:"isFraudster"`
}
