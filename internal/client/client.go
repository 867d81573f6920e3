// Package client is the thin gateway the terminal UI uses to reach the
// backend. Each method issues one HTTP call and either returns the parsed
// body or a normalized error; there are no retries and no caching.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/contactdesk/contactdesk/internal/contacts"
)

// APIError carries the server's structured failure envelope. Transport
// failures stay plain errors.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client talks to the contactdesk API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a gateway for the given base URL. A nil httpClient gets a
// default with a request timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// List fetches contacts ordered by the given sort spec.
func (c *Client) List(ctx context.Context, sort string, limit int) ([]*contacts.Contact, error) {
	q := url.Values{}
	if sort != "" {
		q.Set("sort", sort)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	endpoint := c.baseURL + "/contacts"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var resp contacts.ListResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Contacts, nil
}

// Create submits a new contact and returns the created document.
func (c *Client) Create(ctx context.Context, req *contacts.CreateContactRequest) (*contacts.Contact, error) {
	var resp contacts.CreateResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/contacts", req, &resp); err != nil {
		return nil, err
	}
	return resp.Contact, nil
}

// Get fetches a single contact by id.
func (c *Client) Get(ctx context.Context, id string) (*contacts.Contact, error) {
	var resp contacts.GetResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/contacts/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Contact, nil
}

// Delete removes a contact by id.
func (c *Client) Delete(ctx context.Context, id string) error {
	var resp contacts.DeleteResponse
	return c.do(ctx, http.MethodDelete, c.baseURL+"/contacts/"+url.PathEscape(id), nil, &resp)
}

// do performs the request and decodes the response into out. A non-2xx
// response becomes an *APIError when the body carries the failure
// envelope, otherwise the status text stands in.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("client: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&failure); decodeErr == nil && failure.Message != "" {
			return &APIError{Status: resp.StatusCode, Message: failure.Message}
		}
		return &APIError{Status: resp.StatusCode, Message: resp.Status}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: failed to decode response: %w", err)
	}
	return nil
}
