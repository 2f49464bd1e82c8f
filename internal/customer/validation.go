// internal/customer/validation.go
package customer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// emailPattern accepts an ASCII local part of letters, digits and +_.-, a
// domain of letters, digits and hyphens, and a TLD of at least two letters.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9-]+\.[A-Za-z]{2,}$`)

// Validator checks a registration request against the business rules. Rules
// are evaluated independently and accumulated rather than short-circuited,
// with one exception: email uniqueness is only checked once the format has
// passed, so an invalid address never costs a store round-trip.
type Validator struct {
	store Store
}

func NewValidator(store Store) *Validator {
	return &Validator{store: store}
}

// Validate returns nil or a *ValidationError listing every failed rule in
// evaluation order: first name, last name, email presence, then email format
// or uniqueness.
func (v *Validator) Validate(ctx context.Context, req RegistrationRequest) error {
	var reasons []string

	if isBlank(req.FirstName) {
		reasons = append(reasons, "First name is required")
	}
	if isBlank(req.LastName) {
		reasons = append(reasons, "Last name is required")
	}

	if isBlank(req.Email) {
		reasons = append(reasons, "Email is required")
	} else if !emailPattern.MatchString(req.Email) {
		reasons = append(reasons, "Email format is invalid")
	} else {
		_, err := v.store.FindByEmail(ctx, req.Email)
		switch {
		case err == nil:
			reasons = append(reasons, "Email is already registered")
		case errors.Is(err, ErrNotFound):
			// Email is free.
		default:
			return fmt.Errorf("check email uniqueness: %w", err)
		}
	}

	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
