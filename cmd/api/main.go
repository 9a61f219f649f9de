// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"shelfkeeper/internal/catalog"
	"shelfkeeper/internal/circulation"
	"shelfkeeper/internal/config"
	"shelfkeeper/internal/eventlog"
	"shelfkeeper/internal/membership"
	"shelfkeeper/internal/server"
	"shelfkeeper/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := telemetry.NewLogger(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up telemetry: %v", err)
	}

	journal := eventlog.NewJournal()
	books := catalog.NewStore()
	patrons := membership.NewStore()
	services := server.Services{
		Catalog:     catalog.NewService(books, journal, logger),
		Membership:  membership.NewService(patrons, journal, logger),
		Circulation: circulation.NewService(books, patrons, journal, logger),
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(services, limiter, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", "error", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error("failed to flush telemetry", "error", err)
	}
}
