// Package witclient is a small client for the Wit.ai message endpoint.
package witclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://api.wit.ai/message"
	defaultVersion = "20240304"
	defaultTimeout = 15 * time.Second

	// upstream error bodies are kept for logs only
	maxErrorBody = 4 << 10
)

// Client calls GET /message with a bearer token
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	version    string
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithBaseURL sets the full message endpoint URL
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithVersion sets the v query parameter; empty omits it
func WithVersion(v string) ClientOption {
	return func(c *Client) {
		c.version = v
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client. The http.Client is shared across calls so connections are reused.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		version: defaultVersion,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Version returns the API version sent with each request
func (c *Client) Version() string {
	return c.version
}

// Extract sends text as q and decodes the entity response.
// Non-2xx responses return *APIError.
func (c *Client) Extract(ctx context.Context, text string) (*Response, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	query := endpoint.Query()
	query.Set("q", text)
	if c.version != "" {
		query.Set("v", c.version)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error carries the full URL, q included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &out, nil
}
