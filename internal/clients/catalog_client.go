// internal/clients/catalog_client.go
package clients

import (
	"context"
	"net/http"
	"net/url"

	"shelfkeeper/internal/catalog"
)

type CatalogClient struct {
	base
}

func NewCatalogClient(baseURL string, httpClient *http.Client) *CatalogClient {
	return &CatalogClient{base: newBase(baseURL, httpClient)}
}

func (c *CatalogClient) AddBook(ctx context.Context, title, author, isbn string, year int) (catalog.Book, error) {
	req := struct {
		Title           string `json:"title"`
		Author          string `json:"author"`
		ISBN            string `json:"isbn"`
		PublicationYear int    `json:"publication_year"`
	}{title, author, isbn, year}

	var book catalog.Book
	err := c.do(ctx, http.MethodPost, "/books", req, http.StatusCreated, &book)
	return book, err
}

func (c *CatalogClient) GetBook(ctx context.Context, isbn string) (catalog.Book, error) {
	var book catalog.Book
	err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(isbn), nil, http.StatusOK, &book)
	return book, err
}

func (c *CatalogClient) RemoveBook(ctx context.Context, isbn string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(isbn), nil, http.StatusNoContent, nil)
}

// Search runs a query with the named policy: "title", "author" or "isbn".
func (c *CatalogClient) Search(ctx context.Context, query, by string) ([]catalog.Book, error) {
	params := url.Values{"q": {query}, "by": {by}}
	var books []catalog.Book
	err := c.do(ctx, http.MethodGet, "/books/search?"+params.Encode(), nil, http.StatusOK, &books)
	return books, err
}
