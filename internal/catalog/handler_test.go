package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfkeeper/internal/eventlog"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := NewService(NewStore(), eventlog.NewJournal(), nil)
	srv := httptest.NewServer(NewHandler(svc).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHandler_BookLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/", `{"title":"1984","author":"George Orwell","isbn":"978-0-452-28423-4","publication_year":1949}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/", `{"title":"1984","author":"George Orwell","isbn":"978-0-452-28423-4","publication_year":1949}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/978-0-452-28423-4", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var book Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&book))
	assert.Equal(t, "George Orwell", book.Author)
	assert.True(t, book.Available)

	resp = do(t, http.MethodPut, srv.URL+"/978-0-452-28423-4", `{"title":"Nineteen Eighty-Four","author":"George Orwell","publication_year":1949}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/search?q=eighty&by=title", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var results []Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&results))
	require.Len(t, results, 1)

	resp = do(t, http.MethodDelete, srv.URL+"/978-0-452-28423-4", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/978-0-452-28423-4", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_BadRequests(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/", `{"title":"","author":"A","isbn":"1","publication_year":2000}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/search?q=x&by=publisher", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/search?q=x", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), ErrNoSearchPolicy.Error())

	resp = do(t, http.MethodGet, srv.URL+"/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var books []Book
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&books))
	assert.Empty(t, books)
}
