// internal/circulation/domain.go
package circulation

import (
	"time"

	"github.com/google/uuid"
)

// Loan records one checkout of a book by a patron.
type Loan struct {
	ID           uuid.UUID  `json:"id"`
	ISBN         string     `json:"isbn"`
	PatronID     int        `json:"patron_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	ReturnDate   *time.Time `json:"return_date,omitempty"`
}

// IsReturned reports whether the loan has been closed.
func (l Loan) IsReturned() bool {
	return l.ReturnDate != nil
}

// BookCheckedOutEvent is published when a book is lent to a patron.
type BookCheckedOutEvent struct {
	LoanID       uuid.UUID `json:"loan_id"`
	ISBN         string    `json:"isbn"`
	PatronID     int       `json:"patron_id"`
	CheckoutDate time.Time `json:"checkout_date"`
}

// BookReturnedEvent is published when a lent book comes back.
type BookReturnedEvent struct {
	LoanID     uuid.UUID `json:"loan_id"`
	ISBN       string    `json:"isbn"`
	PatronID   int       `json:"patron_id"`
	ReturnDate time.Time `json:"return_date"`
}

// LoanWithdrawnEvent is published when an active loan is closed because its
// book left the catalog.
type LoanWithdrawnEvent struct {
	LoanID     uuid.UUID `json:"loan_id"`
	ISBN       string    `json:"isbn"`
	PatronID   int       `json:"patron_id"`
	ClosedDate time.Time `json:"closed_date"`
}
