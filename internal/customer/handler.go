// internal/customer/handler.go
package customer

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"veriboard/internal/resilience"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the customer endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/customers", h.handleRegister)
	r.Get("/customers/{id}", h.handleGetCustomer)
	return r
}

type errorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
}

type registerResponse struct {
	Message    string    `json:"message"`
	CustomerID uuid.UUID `json:"customerId"`
	Email      string    `json:"email"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "Malformed JSON request")
		return
	}

	c, err := h.service.RegisterCustomer(r.Context(), req)
	if err != nil {
		writeRegistrationError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(registerResponse{
		Message:    "Customer registered successfully",
		CustomerID: c.ID,
		Email:      c.Email,
	})
}

func (h *Handler) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Bad Request", "invalid customer ID")
		return
	}

	c, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Not Found", "customer not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(c)
}

// writeRegistrationError maps the registration error taxonomy to HTTP status
// codes: validation 400, fraud 409, circuit-open 503, timeout 408, rate limit
// 429, anything else 500.
func writeRegistrationError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError
	var fraudErr *FraudError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, r, http.StatusBadRequest, "Validation Failed", validationErr.Error())
	case errors.Is(err, ErrDuplicateEmail):
		// Loser of the concurrent-registration race; same outcome as the
		// validation-time uniqueness check.
		writeError(w, r, http.StatusBadRequest, "Validation Failed", "Email is already registered")
	case errors.As(err, &fraudErr):
		writeError(w, r, http.StatusConflict, "Registration Blocked", fraudErr.Error())
	case errors.Is(err, resilience.ErrUnavailable):
		w.Header().Set("Retry-After", "30")
		writeError(w, r, http.StatusServiceUnavailable, "Service Temporarily Unavailable",
			"The service is temporarily unavailable. Please try again later.")
	case errors.Is(err, resilience.ErrTimeout):
		writeError(w, r, http.StatusRequestTimeout, "Request Timeout",
			"The request took too long to process. Please try again.")
	case errors.Is(err, ErrRateLimited):
		writeError(w, r, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded")
	default:
		writeError(w, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, errLabel, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     errLabel,
		Message:   message,
		Path:      r.URL.Path,
	})
}
