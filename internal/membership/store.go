// internal/membership/store.go
package membership

import (
	"errors"
	"maps"
	"slices"
	"sync"

	"shelfkeeper/internal/circulation"
)

var (
	// ErrPatronNotFound is shared with circulation so lending failures match it.
	ErrPatronNotFound    = circulation.ErrPatronNotFound
	ErrDuplicatePatronID = errors.New("patron with this ID already exists")
	ErrPatronIDMismatch  = errors.New("patron ID does not match the key")
	ErrLoanNotInHistory  = errors.New("loan not in borrowing history")
)

// Store keeps patrons keyed by id and hands out the next free id.
type Store struct {
	mu      sync.RWMutex
	patrons map[int]*Patron
	nextID  int
}

func NewStore() *Store {
	return &Store{
		patrons: make(map[int]*Patron),
		nextID:  1,
	}
}

// NextID returns the current counter value and advances it. Ids are never
// reused, even after removal.
func (s *Store) NextID() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) Add(patron Patron) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patrons[patron.ID]; ok {
		return ErrDuplicatePatronID
	}
	p := patron.clone()
	s.patrons[patron.ID] = &p
	return nil
}

// Update replaces the contact details stored under id. The borrowing history
// belongs to lending and is kept.
func (s *Store) Update(id int, patron Patron) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.patrons[id]
	if !ok {
		return ErrPatronNotFound
	}
	if patron.ID != id {
		return ErrPatronIDMismatch
	}
	current.Name = patron.Name
	current.Email = patron.Email
	current.Phone = patron.Phone
	return nil
}

func (s *Store) FindByID(id int) (Patron, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patron, ok := s.patrons[id]
	if !ok {
		return Patron{}, ErrPatronNotFound
	}
	return patron.clone(), nil
}

// List returns a snapshot of all patrons ordered by id.
func (s *Store) List() []Patron {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patrons := make([]Patron, 0, len(s.patrons))
	for _, id := range slices.Sorted(maps.Keys(s.patrons)) {
		patrons = append(patrons, s.patrons[id].clone())
	}
	return patrons
}

func (s *Store) Remove(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.patrons[id]; !ok {
		return ErrPatronNotFound
	}
	delete(s.patrons, id)
	return nil
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.patrons)
}

func (s *Store) PatronName(id int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	patron, ok := s.patrons[id]
	if !ok {
		return "", ErrPatronNotFound
	}
	return patron.Name, nil
}

// RecordLoan appends loan to its patron's history.
func (s *Store) RecordLoan(loan circulation.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patron, ok := s.patrons[loan.PatronID]
	if !ok {
		return ErrPatronNotFound
	}
	patron.BorrowingHistory = append(patron.BorrowingHistory, loan)
	return nil
}

// RecordReturn replaces the history entry with the same loan id.
func (s *Store) RecordReturn(loan circulation.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	patron, ok := s.patrons[loan.PatronID]
	if !ok {
		return ErrPatronNotFound
	}
	idx := slices.IndexFunc(patron.BorrowingHistory, func(l circulation.Loan) bool {
		return l.ID == loan.ID
	})
	if idx < 0 {
		return ErrLoanNotInHistory
	}
	patron.BorrowingHistory[idx] = loan
	return nil
}
