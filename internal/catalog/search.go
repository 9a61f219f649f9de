// internal/catalog/search.go
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNoSearchPolicy = errors.New("search policy not set")

// SearchPolicy decides whether a book matches a query.
type SearchPolicy func(book Book, query string) bool

// ByTitle matches a case-insensitive substring of the title.
func ByTitle(book Book, query string) bool {
	return strings.Contains(strings.ToLower(book.Title), strings.ToLower(query))
}

// ByAuthor matches a case-insensitive substring of the author.
func ByAuthor(book Book, query string) bool {
	return strings.Contains(strings.ToLower(book.Author), strings.ToLower(query))
}

// ByISBN matches the whole ISBN, ignoring case.
func ByISBN(book Book, query string) bool {
	return strings.EqualFold(book.ISBN, query)
}

// ParseSearchPolicy maps "title", "author" or "isbn" to its policy.
func ParseSearchPolicy(name string) (SearchPolicy, error) {
	switch strings.ToLower(name) {
	case "title":
		return ByTitle, nil
	case "author":
		return ByAuthor, nil
	case "isbn":
		return ByISBN, nil
	default:
		return nil, fmt.Errorf("unknown search policy %q", name)
	}
}

// Search returns the books matching query under policy, in input order.
// A nil policy yields no results and ErrNoSearchPolicy.
func Search(books []Book, query string, policy SearchPolicy) ([]Book, error) {
	if policy == nil {
		return []Book{}, ErrNoSearchPolicy
	}

	results := make([]Book, 0)
	for _, book := range books {
		if policy(book, query) {
			results = append(results, book)
		}
	}
	return results, nil
}
