// internal/catalog/domain.go
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Book represents a title held by the library.
type Book struct {
	Title           string `json:"title"`
	Author          string `json:"author"`
	ISBN            string `json:"isbn"`
	PublicationYear int    `json:"publication_year"`
	Available       bool   `json:"available"`
}

// ValidationError reports a malformed book field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewBook validates the fields and returns an available book.
func NewBook(title, author, isbn string, publicationYear int) (Book, error) {
	if strings.TrimSpace(title) == "" {
		return Book{}, &ValidationError{Field: "title", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(author) == "" {
		return Book{}, &ValidationError{Field: "author", Reason: "cannot be empty"}
	}
	if strings.TrimSpace(isbn) == "" {
		return Book{}, &ValidationError{Field: "isbn", Reason: "cannot be empty"}
	}
	if publicationYear < 0 || publicationYear > time.Now().Year() {
		return Book{}, &ValidationError{
			Field:  "publication_year",
			Reason: fmt.Sprintf("%d is out of range", publicationYear),
		}
	}

	return Book{
		Title:           title,
		Author:          author,
		ISBN:            isbn,
		PublicationYear: publicationYear,
		Available:       true,
	}, nil
}

// BookAddedEvent is published when a book enters the catalog.
type BookAddedEvent struct {
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
}

// BookUpdatedEvent is published when a book's catalog fields are replaced.
type BookUpdatedEvent struct {
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	PublicationYear int    `json:"publication_year"`
}

// BookRemovedEvent is published when a book leaves the catalog.
type BookRemovedEvent struct {
	ISBN string `json:"isbn"`
}
