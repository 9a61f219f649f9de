// internal/circulation/handler.go
package circulation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"shelfkeeper/internal/catalog"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Register adds the lending routes to r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/checkout", h.handleCheckout)
	r.Post("/return", h.handleReturn)
	r.Get("/loans", h.handleLoans)
	r.Get("/loans/active", h.handleActiveLoans)
	r.Get("/inventory/available", h.handleAvailable)
	r.Get("/inventory/borrowed", h.handleBorrowed)
}

type lendingRequest struct {
	ISBN     string `json:"isbn"`
	PatronID int    `json:"patron_id"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req lendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := h.service.CheckoutBook(r.Context(), req.ISBN, req.PatronID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(loan)
}

func (h *Handler) handleReturn(w http.ResponseWriter, r *http.Request) {
	var req lendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := h.service.ReturnBook(r.Context(), req.ISBN, req.PatronID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loan)
}

func (h *Handler) handleLoans(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.Loans(r.Context()))
}

func (h *Handler) handleActiveLoans(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.ActiveLoans(r.Context()))
}

func (h *Handler) handleAvailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.AvailableBooks(r.Context()))
}

func (h *Handler) handleBorrowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.BorrowedBooks(r.Context()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrBookNotFound), errors.Is(err, ErrPatronNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBookUnavailable), errors.Is(err, ErrNoActiveLoan):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
