// internal/customer/implementation.go
package customer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"veriboard/internal/bulkhead"
	"veriboard/internal/resilience"
)

// service implements the Service interface. Each registration attempt is an
// independent saga; no mutable state crosses requests.
type service struct {
	store       Store
	validator   *Validator
	checkFraud  resilience.CheckFunc
	publisher   EventPublisher
	audit       AuditLog
	fraudPool   *bulkhead.Pool
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewService wires the registration saga. checkFraud is expected to already
// carry the resilience policy chain; the shared breaker lives inside it.
func NewService(store Store, checkFraud resilience.CheckFunc, publisher EventPublisher, audit AuditLog, fraudPool *bulkhead.Pool, logger *slog.Logger) Service {
	return &service{
		store:       store,
		validator:   NewValidator(store),
		checkFraud:  checkFraud,
		publisher:   publisher,
		audit:       audit,
		fraudPool:   fraudPool,
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 25),
		logger:      logger,
		tracer:      otel.Tracer("veriboard/customer"),
	}
}

// RegisterCustomer runs the registration saga:
//
//	validate -> save -> fraud check -> publish
//
// Steps execute strictly in sequence; each depends on the previous step's
// result. Fraud detection compensates with an audit entry and keeps the row.
// A publish failure degrades the outcome but the registration still succeeds.
func (s *service) RegisterCustomer(ctx context.Context, req RegistrationRequest) (*Customer, error) {
	correlationID := uuid.NewString()

	ctx, span := s.tracer.Start(ctx, "customer.register",
		trace.WithAttributes(attribute.String("correlation.id", correlationID)),
	)
	defer span.End()

	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	log := s.logger.With("correlation_id", correlationID)
	log.InfoContext(ctx, "starting customer registration")

	// Step 1: validate. No side effects have happened yet.
	if err := s.validator.Validate(ctx, req); err != nil {
		return nil, err
	}

	// Step 2: persist. The unique-email constraint is the backstop for the
	// check-then-act race between concurrent registrations.
	saved, err := s.store.Save(ctx, req.ToCustomer())
	if err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	span.SetAttributes(attribute.String("customer.id", saved.ID.String()))
	log.InfoContext(ctx, "customer saved", "customer_id", saved.ID)

	// Step 3: fraud check with the saved id, isolated in its own pool so a
	// slow fraud service throttles registrations instead of starving other
	// work.
	var fraudulent bool
	err = s.fraudPool.Execute(ctx, func() error {
		var checkErr error
		fraudulent, checkErr = s.checkFraud(ctx, saved.ID)
		return checkErr
	})
	if err != nil {
		return nil, fmt.Errorf("fraud check: %w", err)
	}

	if fraudulent {
		// Compensation keeps the row; deleting would erase the audit trail.
		s.audit.RecordCompensation(ctx, saved.ID, correlationID, "fraud detected")
		return nil, &FraudError{CustomerID: saved.ID}
	}

	// Step 4: durable event emission. Best effort from the registration's
	// point of view.
	event := NewRegisteredEvent(saved, correlationID)
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.ErrorContext(ctx, "registration event publish failed, continuing",
			"customer_id", saved.ID,
			"event_id", event.EventID,
			"error", err,
		)
	} else {
		log.InfoContext(ctx, "registration event recorded",
			"customer_id", saved.ID,
			"event_id", event.EventID,
		)
	}

	return &saved, nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
