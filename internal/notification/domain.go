// internal/notification/domain.go
package notification

import (
	"time"

	"github.com/google/uuid"
)

// Sender is the fixed sender identity stamped on every notification.
const Sender = "VeriBoard"

// Request is the message contract carried by the notification queue and the
// synchronous POST /notification path.
type Request struct {
	ToCustomerID    uuid.UUID `json:"toCustomerId"`
	ToCustomerEmail string    `json:"toCustomerEmail"`
	Message         string    `json:"message"`
}

// Notification is a delivered (or at least persisted) notification. The
// idempotency key is a deterministic fingerprint of the request's business
// content; its uniqueness is the sole defense against duplicate sends under
// at-least-once redelivery.
type Notification struct {
	ID              uuid.UUID `json:"id"`
	ToCustomerID    uuid.UUID `json:"to_customer_id"`
	ToCustomerEmail string    `json:"to_customer_email"`
	Sender          string    `json:"sender"`
	Message         string    `json:"message"`
	SentAt          time.Time `json:"sent_at"`
	IdempotencyKey  string    `json:"idempotency_key"`
}
