package membership

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelfkeeper/internal/circulation"
	"shelfkeeper/internal/eventlog"
)

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rec
}

func TestHandler_PatronLifecycle(t *testing.T) {
	h := NewHandler(NewService(NewStore(), eventlog.NewJournal(), nil)).Routes()

	rec := serve(t, h, http.MethodPost, "/", `{"name":"John Doe","email":"john.doe@email.com","phone":"555-0101"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created Patron
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, 1, created.ID)

	rec = serve(t, h, http.MethodPut, "/1", `{"name":"John Doe","email":"jd@email.com","phone":"555-0101"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, h, http.MethodGet, "/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var found Patron
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&found))
	assert.Equal(t, "jd@email.com", found.Email)

	rec = serve(t, h, http.MethodGet, "/1/loans", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var loans []circulation.Loan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&loans))
	assert.Empty(t, loans)

	rec = serve(t, h, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var patrons []Patron
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&patrons))
	assert.Len(t, patrons, 1)
}

func TestHandler_Errors(t *testing.T) {
	h := NewHandler(NewService(NewStore(), eventlog.NewJournal(), nil)).Routes()

	assert.Equal(t, http.StatusBadRequest, serve(t, h, http.MethodPost, "/", `{"name":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, h, http.MethodGet, "/abc", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, h, http.MethodGet, "/7", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, h, http.MethodGet, "/7/loans", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, h, http.MethodPut, "/7", `{"name":"X"}`).Code)
}
