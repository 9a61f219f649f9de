// internal/circulation/implementation.go
package circulation

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"shelfkeeper/internal/catalog"
	"shelfkeeper/internal/eventlog"
)

const (
	instrumentationName = "shelfkeeper/circulation"
	aggregateType       = "loan"
)

type Option func(*service)

// WithClock sets the source of the current time. Loan dates are truncated to
// the local calendar day.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *service) { s.tracer = tp.Tracer(instrumentationName) }
}

func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *service) { s.meter = mp.Meter(instrumentationName) }
}

// service implements the Service interface.
type service struct {
	// mu makes the availability check and the loan creation one step.
	mu    sync.Mutex
	loans []Loan

	books   Books
	patrons Patrons
	journal *eventlog.Journal
	logger  *slog.Logger
	now     func() time.Time

	tracer    trace.Tracer
	meter     metric.Meter
	checkouts metric.Int64Counter
	returns   metric.Int64Counter
}

// NewService creates a new circulation service instance.
func NewService(books Books, patrons Patrons, journal *eventlog.Journal, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &service{
		books:   books,
		patrons: patrons,
		journal: journal,
		logger:  logger.With("component", "circulation"),
		now:     time.Now,
		tracer:  otel.Tracer(instrumentationName),
		meter:   otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	s.checkouts, err = s.meter.Int64Counter("circulation.checkouts",
		metric.WithDescription("Checkout attempts by outcome"))
	if err != nil {
		s.logger.Error("failed to create checkout counter", "error", err)
		s.checkouts = noop.Int64Counter{}
	}
	s.returns, err = s.meter.Int64Counter("circulation.returns",
		metric.WithDescription("Return attempts by outcome"))
	if err != nil {
		s.logger.Error("failed to create return counter", "error", err)
		s.returns = noop.Int64Counter{}
	}

	books.OnRemove(s.withdraw)
	return s
}

// CheckoutBook lends an available book to a registered patron.
func (s *service) CheckoutBook(ctx context.Context, isbn string, patronID int) (Loan, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.checkout",
		trace.WithAttributes(
			attribute.String("book.isbn", isbn),
			attribute.Int("patron.id", patronID),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.books.FindByISBN(isbn)
	if err != nil {
		return Loan{}, s.checkoutFailed(ctx, span, isbn, patronID, err)
	}
	name, err := s.patrons.PatronName(patronID)
	if err != nil {
		return Loan{}, s.checkoutFailed(ctx, span, isbn, patronID, err)
	}
	if !book.Available {
		return Loan{}, s.checkoutFailed(ctx, span, isbn, patronID, ErrBookUnavailable)
	}

	loan := Loan{
		ID:           uuid.New(),
		ISBN:         isbn,
		PatronID:     patronID,
		CheckoutDate: s.today(),
	}

	if err := s.books.SetAvailable(isbn, false); err != nil {
		return Loan{}, s.checkoutFailed(ctx, span, isbn, patronID, err)
	}
	if err := s.patrons.RecordLoan(loan); err != nil {
		// Compensate: the book goes back on the shelf.
		if rerr := s.books.SetAvailable(isbn, true); rerr != nil {
			s.logger.ErrorContext(ctx, "failed to restore availability", "isbn", isbn, "error", rerr)
		}
		return Loan{}, s.checkoutFailed(ctx, span, isbn, patronID, err)
	}
	s.loans = append(s.loans, loan)

	span.SetAttributes(attribute.String("loan.id", loan.ID.String()))
	s.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	s.logger.InfoContext(ctx, "book checked out",
		"title", book.Title, "isbn", isbn, "patron", name, "patron_id", patronID)

	s.record(ctx, loan.ID, "BookCheckedOut", BookCheckedOutEvent{
		LoanID:       loan.ID,
		ISBN:         isbn,
		PatronID:     patronID,
		CheckoutDate: loan.CheckoutDate,
	})
	return loan, nil
}

func (s *service) checkoutFailed(ctx context.Context, span trace.Span, isbn string, patronID int, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.checkouts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
	s.logger.WarnContext(ctx, "checkout rejected", "isbn", isbn, "patron_id", patronID, "reason", err)
	return err
}

// ReturnBook closes the earliest active loan of isbn held by patronID.
func (s *service) ReturnBook(ctx context.Context, isbn string, patronID int) (Loan, error) {
	ctx, span := s.tracer.Start(ctx, "circulation.return",
		trace.WithAttributes(
			attribute.String("book.isbn", isbn),
			attribute.Int("patron.id", patronID),
		),
	)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	book, err := s.books.FindByISBN(isbn)
	if err != nil {
		return Loan{}, s.returnFailed(ctx, span, isbn, patronID, err)
	}
	name, err := s.patrons.PatronName(patronID)
	if err != nil {
		return Loan{}, s.returnFailed(ctx, span, isbn, patronID, err)
	}

	idx := slices.IndexFunc(s.loans, func(l Loan) bool {
		return l.ISBN == isbn && l.PatronID == patronID && !l.IsReturned()
	})
	if idx < 0 {
		return Loan{}, s.returnFailed(ctx, span, isbn, patronID, ErrNoActiveLoan)
	}

	if err := s.books.SetAvailable(isbn, true); err != nil {
		return Loan{}, s.returnFailed(ctx, span, isbn, patronID, err)
	}
	returned := s.today()
	loan := s.loans[idx]
	loan.ReturnDate = &returned
	s.loans[idx] = loan

	if err := s.patrons.RecordReturn(loan); err != nil {
		s.logger.ErrorContext(ctx, "failed to update borrowing history",
			"loan_id", loan.ID, "patron_id", patronID, "error", err)
	}

	span.SetAttributes(attribute.String("loan.id", loan.ID.String()))
	s.returns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	s.logger.InfoContext(ctx, "book returned",
		"title", book.Title, "isbn", isbn, "patron", name, "patron_id", patronID)

	s.record(ctx, loan.ID, "BookReturned", BookReturnedEvent{
		LoanID:     loan.ID,
		ISBN:       isbn,
		PatronID:   patronID,
		ReturnDate: returned,
	})
	return loan, nil
}

func (s *service) returnFailed(ctx context.Context, span trace.Span, isbn string, patronID int, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.returns.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
	s.logger.WarnContext(ctx, "return rejected", "isbn", isbn, "patron_id", patronID, "reason", err)
	return err
}

// withdraw closes the active loans of a book that left the catalog, so a
// re-added copy starts with no loans against it.
func (s *service) withdraw(isbn string) {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, loan := range s.loans {
		if loan.ISBN != isbn || loan.IsReturned() {
			continue
		}
		closed := s.today()
		loan.ReturnDate = &closed
		s.loans[i] = loan

		if err := s.patrons.RecordReturn(loan); err != nil {
			s.logger.ErrorContext(ctx, "failed to update borrowing history",
				"loan_id", loan.ID, "patron_id", loan.PatronID, "error", err)
		}
		s.logger.WarnContext(ctx, "loan closed, book withdrawn",
			"loan_id", loan.ID, "isbn", isbn, "patron_id", loan.PatronID)

		s.record(ctx, loan.ID, "LoanWithdrawn", LoanWithdrawnEvent{
			LoanID:     loan.ID,
			ISBN:       isbn,
			PatronID:   loan.PatronID,
			ClosedDate: closed,
		})
	}
}

func (s *service) AvailableBooks(_ context.Context) []catalog.Book {
	return s.partition(true)
}

func (s *service) BorrowedBooks(_ context.Context) []catalog.Book {
	return s.partition(false)
}

func (s *service) partition(available bool) []catalog.Book {
	books := s.books.List()
	result := make([]catalog.Book, 0, len(books))
	for _, book := range books {
		if book.Available == available {
			result = append(result, book)
		}
	}
	return result
}

// ActiveLoans returns the unreturned loans in checkout order.
func (s *service) ActiveLoans(_ context.Context) []Loan {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Loan, 0)
	for _, loan := range s.loans {
		if !loan.IsReturned() {
			active = append(active, loan)
		}
	}
	return active
}

func (s *service) Loans(_ context.Context) []Loan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Loan{}, s.loans...)
}

func (s *service) today() time.Time {
	now := s.now()
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location())
}

func (s *service) record(ctx context.Context, loanID uuid.UUID, eventType string, payload any) {
	if err := s.journal.Record(ctx, loanID.String(), aggregateType, eventType, payload); err != nil {
		s.logger.ErrorContext(ctx, "failed to record event", "event", eventType, "loan_id", loanID, "error", err)
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, catalog.ErrBookNotFound):
		return "book_not_found"
	case errors.Is(err, ErrPatronNotFound):
		return "patron_not_found"
	case errors.Is(err, ErrBookUnavailable):
		return "unavailable"
	case errors.Is(err, ErrNoActiveLoan):
		return "no_active_loan"
	default:
		return "error"
	}
}
