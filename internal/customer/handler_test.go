// internal/customer/handler_test.go
package customer

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"veriboard/internal/bulkhead"
	"veriboard/internal/clients"
	"veriboard/internal/fraud"
	"veriboard/internal/outbox"
	"veriboard/internal/resilience"
)

// newStack wires a real fraud service behind httptest, the resilient client
// chain, and the customer handler, mirroring the production topology without
// a broker: events land in the in-memory outbox.
func newStack(t *testing.T, verdict fraud.Verdict, cfg resilience.Config) (*httptest.Server, *MemoryStore, *outbox.MemoryStore) {
	t.Helper()
	logger := slog.Default()

	fraudSvc := fraud.NewService(fraud.NewMemoryStore(), verdict, logger)
	fraudServer := httptest.NewServer(fraud.NewHandler(fraudSvc).Routes())
	t.Cleanup(fraudServer.Close)

	breaker := resilience.NewFraudBreaker(cfg, logger)
	checkFraud := resilience.NewFraudCheck(clients.NewFraudClient(fraudServer.URL).Check, cfg, breaker, logger)

	store := NewMemoryStore()
	events := outbox.NewMemoryStore()
	pool := bulkhead.New("fraud-check", 4, bulkhead.CallerRuns, logger)
	svc := NewService(store, checkFraud, NewOutboxPublisher(events), NewMemoryAuditLog(), pool, logger)

	server := httptest.NewServer(NewHandler(svc).Routes())
	t.Cleanup(server.Close)
	return server, store, events
}

func fastConfig() resilience.Config {
	cfg := resilience.DefaultConfig()
	cfg.CallTimeout = 500 * time.Millisecond
	cfg.MaxRetries = 1
	cfg.RetryInterval = time.Millisecond
	return cfg
}

func register(t *testing.T, serverURL, firstName, lastName, email string) *http.Response {
	t.Helper()
	body, err := json.Marshal(RegistrationRequest{FirstName: firstName, LastName: lastName, Email: email})
	require.NoError(t, err)

	resp, err := http.Post(serverURL+"/customers", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	defer resp.Body.Close()
	var env errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestRegistration_CleanCustomerIsCreated(t *testing.T) {
	server, store, events := newStack(t, fraud.ClearAll, fastConfig())

	resp := register(t, server.URL, "John", "Doe", "john@x.com")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body registerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Customer registered successfully", body.Message)
	assert.NotEqual(t, uuid.Nil, body.CustomerID)
	assert.Equal(t, "john@x.com", body.Email)

	assert.Equal(t, 1, store.Count())
	assert.Len(t, events.All(), 1, "exactly one welcome event published")
}

func TestRegistration_DuplicateEmailRejectedOnSecondAttempt(t *testing.T) {
	server, store, _ := newStack(t, fraud.ClearAll, fastConfig())

	resp := register(t, server.URL, "John", "Doe", "john@x.com")
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = register(t, server.URL, "John", "Doe", "john@x.com")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Validation Failed", env.Error)
	assert.Equal(t, "Email is already registered", env.Message)
	assert.Equal(t, http.StatusBadRequest, env.Status)
	assert.Equal(t, "/customers", env.Path)
	assert.False(t, env.Timestamp.IsZero())

	assert.Equal(t, 1, store.Count(), "second attempt must not create a row")
}

func TestRegistration_FraudsterIsBlockedButRetained(t *testing.T) {
	flagAll := func(uuid.UUID) bool { return true }
	server, store, events := newStack(t, flagAll, fastConfig())

	resp := register(t, server.URL, "John", "Doe", "john@x.com")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Registration Blocked", env.Error)
	assert.Equal(t, "Customer registration blocked due to fraud detection", env.Message)

	// The row survives fraud rejection.
	require.Equal(t, 1, store.Count())
	assert.Empty(t, events.All(), "no welcome event for a blocked registration")

	// And is reachable by id for the audit trail.
	saved, err := store.FindByEmail(t.Context(), "john@x.com")
	require.NoError(t, err)
	getResp, err := http.Get(server.URL + "/customers/" + saved.ID.String())
	require.NoError(t, err)
	defer getResp.Body.Close()
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
}

func TestRegistration_ValidationErrorsReported(t *testing.T) {
	server, store, _ := newStack(t, fraud.ClearAll, fastConfig())

	resp := register(t, server.URL, "", "", "not-an-email")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Validation Failed", env.Error)
	assert.Equal(t, "First name is required, Last name is required, Email format is invalid", env.Message)
	assert.Zero(t, store.Count())
}

func TestRegistration_MalformedJSONRejected(t *testing.T) {
	server, _, _ := newStack(t, fraud.ClearAll, fastConfig())

	resp, err := http.Post(server.URL+"/customers", "application/json", bytes.NewReader([]byte("{nope")))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Malformed JSON request", env.Message)
}

func TestRegistration_CircuitOpenReturns503WithoutFallback(t *testing.T) {
	cfg := fastConfig()
	cfg.FailureThreshold = 1
	cfg.FallbackEnabled = false

	logger := slog.Default()
	breaker := resilience.NewFraudBreaker(cfg, logger)

	// Point the client at a server that is already gone.
	deadServer := httptest.NewServer(http.NotFoundHandler())
	deadURL := deadServer.URL
	deadServer.Close()
	checkFraud := resilience.NewFraudCheck(clients.NewFraudClient(deadURL).Check, cfg, breaker, logger)

	store := NewMemoryStore()
	pool := bulkhead.New("fraud-check", 4, bulkhead.CallerRuns, logger)
	svc := NewService(store, checkFraud, NewOutboxPublisher(outbox.NewMemoryStore()), NewMemoryAuditLog(), pool, logger)
	server := httptest.NewServer(NewHandler(svc).Routes())
	t.Cleanup(server.Close)

	// First attempt eats the transport failure and trips the breaker.
	resp := register(t, server.URL, "John", "Doe", "john@x.com")
	resp.Body.Close()
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	// Circuit is open now: fail fast with 503 and a Retry-After hint.
	resp = register(t, server.URL, "Jane", "Doe", "jane@x.com")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "30", resp.Header.Get("Retry-After"))
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Service Temporarily Unavailable", env.Error)
}

func TestRegistration_TimeoutReturns408WithoutFallback(t *testing.T) {
	cfg := fastConfig()
	cfg.CallTimeout = 20 * time.Millisecond
	cfg.MaxRetries = 0
	cfg.FallbackEnabled = false

	logger := slog.Default()
	slowFraud := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(slowFraud.Close)

	breaker := resilience.NewFraudBreaker(cfg, logger)
	checkFraud := resilience.NewFraudCheck(clients.NewFraudClient(slowFraud.URL).Check, cfg, breaker, logger)

	store := NewMemoryStore()
	pool := bulkhead.New("fraud-check", 4, bulkhead.CallerRuns, logger)
	svc := NewService(store, checkFraud, NewOutboxPublisher(outbox.NewMemoryStore()), NewMemoryAuditLog(), pool, logger)
	server := httptest.NewServer(NewHandler(svc).Routes())
	t.Cleanup(server.Close)

	resp := register(t, server.URL, "John", "Doe", "john@x.com")
	require.Equal(t, http.StatusRequestTimeout, resp.StatusCode)
	env := decodeEnvelope(t, resp)
	assert.Equal(t, "Request Timeout", env.Error)
}

func TestRegistration_UnreachableFraudServiceBlocksConservatively(t *testing.T) {
	cfg := fastConfig()
	cfg.FailureThreshold = 1

	logger := slog.Default()
	deadServer := httptest.NewServer(http.NotFoundHandler())
	deadURL := deadServer.URL
	deadServer.Close()

	breaker := resilience.NewFraudBreaker(cfg, logger)
	checkFraud := resilience.NewFraudCheck(clients.NewFraudClient(deadURL).Check, cfg, breaker, logger)

	store := NewMemoryStore()
	events := outbox.NewMemoryStore()
	pool := bulkhead.New("fraud-check", 4, bulkhead.CallerRuns, logger)
	svc := NewService(store, checkFraud, NewOutboxPublisher(events), NewMemoryAuditLog(), pool, logger)
	server := httptest.NewServer(NewHandler(svc).Routes())
	t.Cleanup(server.Close)

	// Fallback treats the outage as fraud: rejected, not silently accepted.
	resp := register(t, server.URL, "John", "Doe", "john@x.com")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
	assert.Empty(t, events.All())
}

func TestGetCustomer_UnknownIDReturns404(t *testing.T) {
	server, _, _ := newStack(t, fraud.ClearAll, fastConfig())

	resp, err := http.Get(server.URL + "/customers/" + uuid.NewString())
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
