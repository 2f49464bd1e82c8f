// internal/fraud/handler.go
package fraud

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the fraud check RPC endpoint.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/fraud-check/{customerId}", h.handleCheck)
	return r
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}

	isFraudster, err := h.service.CheckCustomer(r.Context(), customerID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(CheckResponse{IsFraudster: isFraudster})
}
