// internal/membership/domain.go
package membership

import (
	"slices"
	"strings"

	"shelfkeeper/internal/circulation"
)

// Patron represents a library member and every loan they have taken.
type Patron struct {
	ID               int                `json:"id"`
	Name             string             `json:"name"`
	Email            string             `json:"email"`
	Phone            string             `json:"phone"`
	BorrowingHistory []circulation.Loan `json:"borrowing_history"`
}

// NewPatron returns a patron with an empty borrowing history.
func NewPatron(id int, name, email, phone string) (Patron, error) {
	if id <= 0 {
		return Patron{}, &ValidationError{Field: "id", Reason: "must be positive"}
	}
	if strings.TrimSpace(name) == "" {
		return Patron{}, &ValidationError{Field: "name", Reason: "cannot be empty"}
	}
	return Patron{
		ID:               id,
		Name:             name,
		Email:            email,
		Phone:            phone,
		BorrowingHistory: []circulation.Loan{},
	}, nil
}

// ActiveLoans counts the loans in the history that are not yet returned.
func (p Patron) ActiveLoans() int {
	n := 0
	for _, loan := range p.BorrowingHistory {
		if !loan.IsReturned() {
			n++
		}
	}
	return n
}

func (p Patron) clone() Patron {
	p.BorrowingHistory = slices.Clone(p.BorrowingHistory)
	if p.BorrowingHistory == nil {
		p.BorrowingHistory = []circulation.Loan{}
	}
	return p
}

// ValidationError reports a malformed patron field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// PatronRegisteredEvent is published when a new patron joins.
type PatronRegisteredEvent struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PatronUpdatedEvent is published when a patron's contact details are replaced.
type PatronUpdatedEvent struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
