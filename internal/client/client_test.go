package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactdesk/contactdesk/internal/api/router"
	"github.com/contactdesk/contactdesk/internal/contacts"
	"github.com/contactdesk/contactdesk/pkg/logging"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	handler := contacts.NewHandler(contacts.NewInMemoryRepository(), logging.Default())
	srv := httptest.NewServer(router.New(&router.Config{
		ContactsHandler: handler,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestContactLifecycle(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, srv.Client())
	ctx := context.Background()

	created, err := c.Create(ctx, &contacts.CreateContactRequest{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "+1 555-123-4567",
		Message: "Interested in your services",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Jane Doe", created.Name)

	list, err := c.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)

	require.NoError(t, c.Delete(ctx, created.ID))

	list, err = c.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = c.Get(ctx, created.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Contact not found", apiErr.Message)
}

func TestCreateSurfacesValidationMessage(t *testing.T) {
	srv := newTestServer(t)
	c := New(srv.URL, srv.Client())

	_, err := c.Create(context.Background(), &contacts.CreateContactRequest{
		Name:  "J",
		Email: "not-an-email",
		Phone: "+1234567890",
	})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Name must be at least 2 characters")
	assert.Contains(t, apiErr.Message, "valid email")
}

func TestListPassesSortAndLimit(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"count":0,"contacts":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	_, err := c.List(context.Background(), "-createdAt", 25)
	require.NoError(t, err)
	assert.Equal(t, "limit=25&sort=-createdAt", gotQuery)
}

func TestNonEnvelopeFailureUsesStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	_, err := c.List(context.Background(), "", 0)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Message, "502")
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // refuse connections

	c := New(srv.URL, nil)
	_, err := c.List(context.Background(), "", 0)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
