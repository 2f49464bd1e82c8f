// internal/fraud/implementation.go
package fraud

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Verdict decides whether a customer is fraudulent. The production rule set
// clears everyone; deployments plug in real scoring here.
type Verdict func(customerID uuid.UUID) bool

// ClearAll is the default verdict.
func ClearAll(uuid.UUID) bool { return false }

// service implements the Service interface. Every check is recorded before
// the verdict is returned so the history survives regardless of what the
// caller does with the result.
type service struct {
	store   Store
	verdict Verdict
	logger  *slog.Logger
}

func NewService(store Store, verdict Verdict, logger *slog.Logger) Service {
	if verdict == nil {
		verdict = ClearAll
	}
	return &service{store: store, verdict: verdict, logger: logger}
}

func (s *service) CheckCustomer(ctx context.Context, customerID uuid.UUID) (bool, error) {
	isFraudster := s.verdict(customerID)

	rec := CheckRecord{
		ID:          uuid.New(),
		CustomerID:  customerID,
		IsFraudster: isFraudster,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return false, fmt.Errorf("record fraud check: %w", err)
	}

	s.logger.InfoContext(ctx, "fraud check completed",
		"customer_id", customerID,
		"is_fraudster", isFraudster,
	)
	return isFraudster, nil
}
