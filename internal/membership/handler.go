// internal/membership/handler.go
package membership

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /patrons.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleRegisterPatron)
	r.Get("/", h.handleListPatrons)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGetPatron)
		r.Put("/", h.handleUpdatePatron)
		r.Get("/loans", h.handleBorrowingHistory)
	})
	return r
}

type patronRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (h *Handler) handleRegisterPatron(w http.ResponseWriter, r *http.Request) {
	var req patronRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patron, err := h.service.RegisterPatron(r.Context(), req.Name, req.Email, req.Phone)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(patron)
}

func (h *Handler) handleListPatrons(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.ListPatrons(r.Context()))
}

func (h *Handler) handleGetPatron(w http.ResponseWriter, r *http.Request) {
	id, ok := patronID(w, r)
	if !ok {
		return
	}

	patron, err := h.service.FindPatron(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(patron)
}

func (h *Handler) handleUpdatePatron(w http.ResponseWriter, r *http.Request) {
	id, ok := patronID(w, r)
	if !ok {
		return
	}

	var req patronRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patron, err := NewPatron(id, req.Name, req.Email, req.Phone)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdatePatron(r.Context(), id, patron); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleBorrowingHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := patronID(w, r)
	if !ok {
		return
	}

	loans, err := h.service.BorrowingHistory(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loans)
}

func patronID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid patron ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func statusFor(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, ErrPatronNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicatePatronID):
		return http.StatusConflict
	case errors.Is(err, ErrPatronIDMismatch):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
