// internal/notification/idempotency.go
package notification

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// messageFingerprintLength bounds how much of the message feeds the key, so
// trailing boilerplate differences do not defeat deduplication.
const messageFingerprintLength = 50

// IdempotencyKey derives a deterministic fingerprint of a request's business
// content: customer id, email, and a hash of the message's first 50
// characters. Identical requests always produce the same key, which is what
// lets the store's unique constraint suppress duplicates.
func IdempotencyKey(req Request) string {
	businessKey := fmt.Sprintf("%s:%s:%s", req.ToCustomerID, req.ToCustomerEmail, fingerprint(req.Message))
	return hashString(businessKey)
}

func fingerprint(message string) string {
	if message == "" {
		return "empty"
	}
	if len(message) > messageFingerprintLength {
		message = message[:messageFingerprintLength]
	}
	return hashString(message)
}

func hashString(input string) string {
	sum := md5.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}
