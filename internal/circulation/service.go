// internal/circulation/service.go
package circulation

import (
	"context"
	"errors"

	"shelfkeeper/internal/catalog"
)

var (
	ErrBookUnavailable = errors.New("book is not available")
	ErrNoActiveLoan    = errors.New("no active loan for this book and patron")
	ErrPatronNotFound  = errors.New("patron not found")
)

// Books is the part of the book store lending needs.
type Books interface {
	FindByISBN(isbn string) (catalog.Book, error)
	SetAvailable(isbn string, available bool) error
	List() []catalog.Book
	OnRemove(fn func(isbn string))
}

// Patrons is the part of the patron store lending needs. PatronName must
// fail with ErrPatronNotFound for unknown ids.
type Patrons interface {
	PatronName(id int) (string, error)
	RecordLoan(loan Loan) error
	RecordReturn(loan Loan) error
}

// Service defines the interface for the circulation service.
type Service interface {
	CheckoutBook(ctx context.Context, isbn string, patronID int) (Loan, error)
	ReturnBook(ctx context.Context, isbn string, patronID int) (Loan, error)
	AvailableBooks(ctx context.Context) []catalog.Book
	BorrowedBooks(ctx context.Context) []catalog.Book
	ActiveLoans(ctx context.Context) []Loan
	Loans(ctx context.Context) []Loan
}
