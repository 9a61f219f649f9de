// internal/membership/implementation.go
package membership

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shelfkeeper/internal/circulation"
	"shelfkeeper/internal/eventlog"
)

const (
	instrumentationName = "shelfkeeper/membership"
	aggregateType       = "patron"
)

type Option func(*service)

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *service) { s.tracer = tp.Tracer(instrumentationName) }
}

// service implements the Service interface.
type service struct {
	store   *Store
	journal *eventlog.Journal
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService creates a new membership service instance.
func NewService(store *Store, journal *eventlog.Journal, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &service{
		store:   store,
		journal: journal,
		logger:  logger.With("component", "membership"),
		tracer:  otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddPatron stores a patron built by the caller.
func (s *service) AddPatron(ctx context.Context, patron Patron) error {
	ctx, span := s.tracer.Start(ctx, "membership.add_patron",
		trace.WithAttributes(attribute.Int("patron.id", patron.ID)))
	defer span.End()

	if err := s.store.Add(patron); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "failed to add patron", "patron_id", patron.ID, "reason", err)
		return err
	}
	s.logger.InfoContext(ctx, "patron added", "name", patron.Name, "patron_id", patron.ID)

	s.record(ctx, patron.ID, "PatronRegistered", PatronRegisteredEvent{
		ID:    patron.ID,
		Name:  patron.Name,
		Email: patron.Email,
		Phone: patron.Phone,
	})
	return nil
}

// RegisterPatron assigns the next id and adds the patron.
func (s *service) RegisterPatron(ctx context.Context, name, email, phone string) (Patron, error) {
	ctx, span := s.tracer.Start(ctx, "membership.register_patron")
	defer span.End()

	patron, err := NewPatron(s.store.NextID(), name, email, phone)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "failed to register patron", "name", name, "reason", err)
		return Patron{}, fmt.Errorf("failed to register patron: %w", err)
	}
	if err := s.AddPatron(ctx, patron); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Patron{}, fmt.Errorf("failed to register patron: %w", err)
	}
	span.SetAttributes(attribute.Int("patron.id", patron.ID))
	return patron, nil
}

func (s *service) UpdatePatron(ctx context.Context, id int, patron Patron) error {
	ctx, span := s.tracer.Start(ctx, "membership.update_patron",
		trace.WithAttributes(attribute.Int("patron.id", id)))
	defer span.End()

	if err := s.store.Update(id, patron); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "failed to update patron", "patron_id", id, "reason", err)
		return err
	}
	s.logger.InfoContext(ctx, "patron updated", "patron_id", id)

	s.record(ctx, id, "PatronUpdated", PatronUpdatedEvent{
		ID:    id,
		Name:  patron.Name,
		Email: patron.Email,
		Phone: patron.Phone,
	})
	return nil
}

func (s *service) FindPatron(_ context.Context, id int) (Patron, error) {
	return s.store.FindByID(id)
}

func (s *service) ListPatrons(_ context.Context) []Patron {
	return s.store.List()
}

func (s *service) NextPatronID(_ context.Context) int {
	return s.store.NextID()
}

// BorrowingHistory returns every loan the patron has taken, oldest first.
func (s *service) BorrowingHistory(ctx context.Context, id int) ([]circulation.Loan, error) {
	patron, err := s.store.FindByID(id)
	if err != nil {
		s.logger.WarnContext(ctx, "borrowing history unavailable", "patron_id", id, "reason", err)
		return nil, err
	}
	return patron.BorrowingHistory, nil
}

func (s *service) CountPatrons(_ context.Context) int {
	return s.store.Count()
}

func (s *service) record(ctx context.Context, id int, eventType string, payload any) {
	if err := s.journal.Record(ctx, strconv.Itoa(id), aggregateType, eventType, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to record event", "event", eventType, "patron_id", id, "error", err)
	}
}
