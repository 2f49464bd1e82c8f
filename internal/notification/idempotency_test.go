// internal/notification/idempotency_test.go
package notification

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestIdempotencyKey_Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		req := Request{
			ToCustomerID:    uuid.New(),
			ToCustomerEmail: rapid.StringMatching(`[a-z]{1,10}@[a-z]{1,10}\.[a-z]{2,4}`).Draw(t, "email"),
			Message:         rapid.String().Draw(t, "message"),
		}
		if IdempotencyKey(req) != IdempotencyKey(req) {
			t.Fatalf("key must be deterministic for identical requests")
		}
	})
}

func TestIdempotencyKey_IgnoresMessageTail(t *testing.T) {
	base := Request{
		ToCustomerID:    uuid.New(),
		ToCustomerEmail: "john@x.com",
		Message:         "Hi John, welcome to VeriBoard! We're excited to have you on board.",
	}
	variant := base
	variant.Message = base.Message[:50] + " -- resent at a later time"

	assert.Equal(t, IdempotencyKey(base), IdempotencyKey(variant),
		"only the first 50 characters of the message feed the fingerprint")
}

func TestIdempotencyKey_DistinguishesCustomers(t *testing.T) {
	a := welcomeRequest()
	b := a
	b.ToCustomerID = uuid.New()

	assert.NotEqual(t, IdempotencyKey(a), IdempotencyKey(b))
}

func TestIdempotencyKey_EmptyMessage(t *testing.T) {
	a := Request{ToCustomerID: uuid.New(), ToCustomerEmail: "john@x.com"}
	b := a
	b.Message = ""

	assert.Equal(t, IdempotencyKey(a), IdempotencyKey(b))
	assert.NotEmpty(t, IdempotencyKey(a))
}
