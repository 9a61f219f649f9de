// internal/catalog/store.go
package catalog

import (
	"errors"
	"maps"
	"slices"
	"sync"
)

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrDuplicateISBN = errors.New("book with this ISBN already exists")
	ErrISBNMismatch  = errors.New("book ISBN does not match the key")
)

// Store keeps books keyed by ISBN. It hands out copies; the only field that
// changes outside of Update is Available, through SetAvailable.
type Store struct {
	mu       sync.RWMutex
	books    map[string]*Book
	onRemove []func(isbn string)
}

func NewStore() *Store {
	return &Store{books: make(map[string]*Book)}
}

// Add inserts the book. A book enters the store available.
func (s *Store) Add(book Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[book.ISBN]; ok {
		return ErrDuplicateISBN
	}
	book.Available = true
	s.books[book.ISBN] = &book
	return nil
}

// OnRemove registers fn to run after a book has left the store. Listeners run
// outside the store lock.
func (s *Store) OnRemove(fn func(isbn string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRemove = append(s.onRemove, fn)
}

func (s *Store) Remove(isbn string) error {
	s.mu.Lock()
	if _, ok := s.books[isbn]; !ok {
		s.mu.Unlock()
		return ErrBookNotFound
	}
	delete(s.books, isbn)
	listeners := slices.Clone(s.onRemove)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(isbn)
	}
	return nil
}

// Update replaces every catalog field of the stored record with the given
// book's. Availability is kept.
func (s *Store) Update(isbn string, book Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.books[isbn]
	if !ok {
		return ErrBookNotFound
	}
	if book.ISBN != isbn {
		return ErrISBNMismatch
	}
	book.Available = current.Available
	*current = book
	return nil
}

func (s *Store) FindByISBN(isbn string) (Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[isbn]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return *book, nil
}

// List returns a snapshot of all books ordered by ISBN.
func (s *Store) List() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]Book, 0, len(s.books))
	for _, isbn := range slices.Sorted(maps.Keys(s.books)) {
		books = append(books, *s.books[isbn])
	}
	return books
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// SetAvailable flips the lending flag of a stored book.
func (s *Store) SetAvailable(isbn string, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[isbn]
	if !ok {
		return ErrBookNotFound
	}
	book.Available = available
	return nil
}
