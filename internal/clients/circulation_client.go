// internal/clients/circulation_client.go
package clients

import (
	"context"
	"net/http"

	"shelfkeeper/internal/catalog"
	"shelfkeeper/internal/circulation"
)

type CirculationClient struct {
	base
}

func NewCirculationClient(baseURL string, httpClient *http.Client) *CirculationClient {
	return &CirculationClient{base: newBase(baseURL, httpClient)}
}

type lendingRequest struct {
	ISBN     string `json:"isbn"`
	PatronID int    `json:"patron_id"`
}

func (c *CirculationClient) Checkout(ctx context.Context, isbn string, patronID int) (circulation.Loan, error) {
	var loan circulation.Loan
	err := c.do(ctx, http.MethodPost, "/checkout", lendingRequest{isbn, patronID}, http.StatusCreated, &loan)
	return loan, err
}

func (c *CirculationClient) Return(ctx context.Context, isbn string, patronID int) (circulation.Loan, error) {
	var loan circulation.Loan
	err := c.do(ctx, http.MethodPost, "/return", lendingRequest{isbn, patronID}, http.StatusOK, &loan)
	return loan, err
}

func (c *CirculationClient) ActiveLoans(ctx context.Context) ([]circulation.Loan, error) {
	var loans []circulation.Loan
	err := c.do(ctx, http.MethodGet, "/loans/active", nil, http.StatusOK, &loans)
	return loans, err
}

func (c *CirculationClient) AvailableBooks(ctx context.Context) ([]catalog.Book, error) {
	var books []catalog.Book
	err := c.do(ctx, http.MethodGet, "/inventory/available", nil, http.StatusOK, &books)
	return books, err
}

func (c *CirculationClient) BorrowedBooks(ctx context.Context) ([]catalog.Book, error) {
	var books []catalog.Book
	err := c.do(ctx, http.MethodGet, "/inventory/borrowed", nil, http.StatusOK, &books)
	return books, err
}
