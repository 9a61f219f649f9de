// internal/catalog/service.go
package catalog

import (
	"context"
)

// Service defines the interface for the catalog service.
type Service interface {
	AddBook(ctx context.Context, book Book) error
	RemoveBook(ctx context.Context, isbn string) error
	UpdateBook(ctx context.Context, isbn string, book Book) error
	FindBook(ctx context.Context, isbn string) (Book, error)
	ListBooks(ctx context.Context) []Book
	SearchBooks(ctx context.Context, query string, policy SearchPolicy) ([]Book, error)
	CountBooks(ctx context.Context) int
}
