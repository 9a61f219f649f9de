// internal/clients/membership_client.go
package clients

import (
	"context"
	"fmt"
	"net/http"

	"shelfkeeper/internal/circulation"
	"shelfkeeper/internal/membership"
)

type MembershipClient struct {
	base
}

func NewMembershipClient(baseURL string, httpClient *http.Client) *MembershipClient {
	return &MembershipClient{base: newBase(baseURL, httpClient)}
}

func (c *MembershipClient) RegisterPatron(ctx context.Context, name, email, phone string) (membership.Patron, error) {
	req := map[string]string{"name": name, "email": email, "phone": phone}
	var patron membership.Patron
	err := c.do(ctx, http.MethodPost, "/patrons", req, http.StatusCreated, &patron)
	return patron, err
}

func (c *MembershipClient) GetPatron(ctx context.Context, id int) (membership.Patron, error) {
	var patron membership.Patron
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/patrons/%d", id), nil, http.StatusOK, &patron)
	return patron, err
}

func (c *MembershipClient) BorrowingHistory(ctx context.Context, id int) ([]circulation.Loan, error) {
	var loans []circulation.Loan
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/patrons/%d/loans", id), nil, http.StatusOK, &loans)
	return loans, err
}
