// internal/catalog/handler.go
package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Routes mounts under /books.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.handleAddBook)
	r.Get("/", h.handleListBooks)
	r.Get("/search", h.handleSearch)
	r.Get("/{isbn}", h.handleGetBook)
	r.Put("/{isbn}", h.handleUpdateBook)
	r.Delete("/{isbn}", h.handleRemoveBook)
	return r
}

type bookRequest struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	PublicationYear int    `json:"publication_year"`
}

func (h *Handler) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	book, err := NewBook(req.Title, req.Author, req.ISBN, req.PublicationYear)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.AddBook(r.Context(), book); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(book)
}

func (h *Handler) handleListBooks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.service.ListBooks(r.Context()))
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	// without a "by" parameter no policy is selected and the search is refused
	var policy SearchPolicy
	if by := r.URL.Query().Get("by"); by != "" {
		var err error
		if policy, err = ParseSearchPolicy(by); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	books, err := h.service.SearchBooks(r.Context(), r.URL.Query().Get("q"), policy)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(books)
}

func (h *Handler) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.FindBook(r.Context(), chi.URLParam(r, "isbn"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(book)
}

func (h *Handler) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	isbn := chi.URLParam(r, "isbn")

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.ISBN == "" {
		req.ISBN = isbn
	}

	book, err := NewBook(req.Title, req.Author, req.ISBN, req.PublicationYear)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateBook(r.Context(), isbn, book); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleRemoveBook(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveBook(r.Context(), chi.URLParam(r, "isbn")); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateISBN):
		return http.StatusConflict
	case errors.Is(err, ErrISBNMismatch), errors.Is(err, ErrNoSearchPolicy):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
