// internal/membership/service.go
package membership

import (
	"context"

	"shelfkeeper/internal/circulation"
)

// Service defines the interface for the membership service.
type Service interface {
	AddPatron(ctx context.Context, patron Patron) error
	RegisterPatron(ctx context.Context, name, email, phone string) (Patron, error)
	UpdatePatron(ctx context.Context, id int, patron Patron) error
	FindPatron(ctx context.Context, id int) (Patron, error)
	ListPatrons(ctx context.Context) []Patron
	NextPatronID(ctx context.Context) int
	BorrowingHistory(ctx context.Context, id int) ([]circulation.Loan, error)
	CountPatrons(ctx context.Context) int
}
