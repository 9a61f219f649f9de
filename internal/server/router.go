// internal/server/router.go
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"shelfkeeper/internal/catalog"
	"shelfkeeper/internal/circulation"
	"shelfkeeper/internal/membership"
)

type Services struct {
	Catalog     catalog.Service
	Membership  membership.Service
	Circulation circulation.Service
}

// NewRouter wires every handler behind the shared middleware stack. A nil
// limiter disables rate limiting.
func NewRouter(services Services, limiter *rate.Limiter, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(Slog(logger.With("component", "http")))
	if limiter != nil {
		r.Use(RateLimit(limiter))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Mount("/books", catalog.NewHandler(services.Catalog).Routes())
	r.Mount("/patrons", membership.NewHandler(services.Membership).Routes())
	circulation.NewHandler(services.Circulation).Register(r)

	return r
}
