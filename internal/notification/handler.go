// internal/notification/handler.go
package notification

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts the synchronous notification path. The queue listener is the
// primary path; this endpoint exists for direct RPC delivery.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/notification", h.handleSend)
	return r
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed JSON request", http.StatusBadRequest)
		return
	}

	if err := h.service.Send(r.Context(), req); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
