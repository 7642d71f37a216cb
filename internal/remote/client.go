// Package remote talks to a user collection endpoint over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/userdesk/internal/user"
)

// RequestIDHeader carries a per-request id so server logs can be correlated.
const RequestIDHeader = "X-Request-Id"

// ErrMissingID is returned by Create when the server response has no id.
var ErrMissingID = errors.New("response has no id")

// StatusError reports a non-2xx response.
type StatusError struct {
	Method string
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: http status %d", e.Method, e.URL, e.Status)
}

// Client is a client for one collection, e.g. https://host/users.
type Client struct {
	collection string
	http       *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets the User-Agent sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// New returns a client for the collection at baseURL/collection.
func New(baseURL, collection string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		collection: base.JoinPath(strings.Trim(collection, "/")).String(),
		http:       &http.Client{},
		userAgent:  "userdesk",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL returns the collection address.
func (c *Client) URL() string { return c.collection }

// List fetches the entire collection in server order.
func (c *Client) List(ctx context.Context) ([]user.Record, error) {
	var out []user.Record
	if err := c.do(ctx, http.MethodGet, c.collection, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create posts f and returns the id the server assigned.
func (c *Client) Create(ctx context.Context, f user.Fields) (user.ID, error) {
	var created struct {
		ID user.ID `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, c.collection, f, &created); err != nil {
		return user.ID{}, err
	}
	if created.ID.IsZero() {
		return user.ID{}, ErrMissingID
	}
	return created.ID, nil
}

// Update replaces the form fields of the record with the given id. The
// response body is ignored.
func (c *Client) Update(ctx context.Context, id user.ID, f user.Fields) error {
	return c.do(ctx, http.MethodPut, c.itemURL(id), f, nil)
}

// Delete removes the record with the given id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id user.ID) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) itemURL(id user.ID) string {
	return c.collection + "/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Method: method, URL: target, Status: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, target, err)
	}
	return nil
}
