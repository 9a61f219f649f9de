// internal/catalog/implementation.go
package catalog

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"shelfkeeper/internal/eventlog"
)

const (
	instrumentationName = "shelfkeeper/catalog"
	aggregateType       = "book"
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

// NewService creates a new catalog service instance.
func NewService(store *Store, journal *eventlog.Journal, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &service{
		store:   store,
		journal: journal,
		logger:  logger.With("component", "catalog"),
		tracer:  otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddBook puts a new book on the shelf.
func (s *service) AddBook(ctx context.Context, book Book) error {
	ctx, span := s.tracer.Start(ctx, "catalog.add_book",
		trace.WithAttributes(attribute.String("book.isbn", book.ISBN)))
	defer span.End()

	if err := s.store.Add(book); err != nil {
		fail(span, err)
		s.logger.WarnContext(ctx, "failed to add book", "isbn", book.ISBN, "reason", err)
		return err
	}
	s.logger.InfoContext(ctx, "book added", "title", book.Title, "isbn", book.ISBN)

	s.record(ctx, book.ISBN, "BookAdded", BookAddedEvent{
		ISBN:            book.ISBN,
		Title:           book.Title,
		Author:          book.Author,
		PublicationYear: book.PublicationYear,
	})
	return nil
}

// RemoveBook takes a book out of the catalog. Active loans on it are closed
// by whoever listens on the store.
func (s *service) RemoveBook(ctx context.Context, isbn string) error {
	ctx, span := s.tracer.Start(ctx, "catalog.remove_book",
		trace.WithAttributes(attribute.String("book.isbn", isbn)))
	defer span.End()

	if err := s.store.Remove(isbn); err != nil {
		fail(span, err)
		s.logger.WarnContext(ctx, "failed to remove book", "isbn", isbn, "reason", err)
		return err
	}
	s.logger.InfoContext(ctx, "book removed", "isbn", isbn)

	s.record(ctx, isbn, "BookRemoved", BookRemovedEvent{ISBN: isbn})
	return nil
}

// UpdateBook replaces the catalog record stored under isbn.
func (s *service) UpdateBook(ctx context.Context, isbn string, book Book) error {
	ctx, span := s.tracer.Start(ctx, "catalog.update_book",
		trace.WithAttributes(attribute.String("book.isbn", isbn)))
	defer span.End()

	if err := s.store.Update(isbn, book); err != nil {
		fail(span, err)
		s.logger.WarnContext(ctx, "failed to update book", "isbn", isbn, "reason", err)
		return err
	}
	s.logger.InfoContext(ctx, "book updated", "isbn", isbn)

	s.record(ctx, isbn, "BookUpdated", BookUpdatedEvent{
		ISBN:            book.ISBN,
		Title:           book.Title,
		Author:          book.Author,
		PublicationYear: book.PublicationYear,
	})
	return nil
}

func (s *service) FindBook(_ context.Context, isbn string) (Book, error) {
	return s.store.FindByISBN(isbn)
}

func (s *service) ListBooks(_ context.Context) []Book {
	return s.store.List()
}

// SearchBooks runs policy over the whole catalog.
func (s *service) SearchBooks(ctx context.Context, query string, policy SearchPolicy) ([]Book, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.search",
		trace.WithAttributes(attribute.String("search.query", query)))
	defer span.End()

	results, err := Search(s.store.List(), query, policy)
	if err != nil {
		fail(span, err)
		s.logger.ErrorContext(ctx, "search not performed", "query", query, "reason", err)
		return results, err
	}
	span.SetAttributes(attribute.Int("search.results", len(results)))
	s.logger.InfoContext(ctx, "search performed", "query", query, "results", len(results))
	return results, nil
}

func (s *service) CountBooks(_ context.Context) int {
	return s.store.Count()
}

func (s *service) record(ctx context.Context, isbn, eventType string, payload any) {
	if err := s.journal.Record(ctx, isbn, aggregateType, eventType, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to record event", "event", eventType, "isbn", isbn, "error", err)
	}
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
