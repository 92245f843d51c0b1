// Package client talks to the donation tracker HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"donationtracker/internal/domain"
)

// DefaultBaseURL is where a locally started API listens.
const DefaultBaseURL = "http://localhost:3001/api"

// CreateRequest is the body of a create call. Date accepts any format the
// server understands, e.g. "2024-01-15" or an RFC 3339 timestamp.
type CreateRequest struct {
	DonorName string  `json:"donorName"`
	Type      string  `json:"type"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Date      string  `json:"date"`
	Notes     string  `json:"notes,omitempty"`
}

// UpdateRequest is a partial update; nil fields are not sent.
type UpdateRequest struct {
	DonorName *string  `json:"donorName,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Quantity  *float64 `json:"quantity,omitempty"`
	Unit      *string  `json:"unit,omitempty"`
	Date      *string  `json:"date,omitempty"`
	Notes     *string  `json:"notes,omitempty"`
}

// TypeOption is one entry of the supported donation types.
type TypeOption struct {
	Value domain.DonationType `json:"value"`
	Label string              `json:"label"`
}

// FieldError is one entry of a validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string       `json:"error"`
	Detail     string       `json:"message,omitempty"`
	Details    []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Is lets a 404 match domain.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == domain.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client is a donation tracker API client.
type Client struct {
	// baseURL is the API root, e.g. http://localhost:3001/api.
	baseURL string

	// httpClient is the HTTP client for making requests.
	httpClient *http.Client
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = normalizeBaseURL(baseURL)
	if baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, fmt.Errorf("applying option: %w", err)
		}
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}

	return &Client{baseURL: baseURL, httpClient: httpClient}, nil
}

// List returns every donation, newest first.
func (c *Client) List(ctx context.Context) ([]domain.Donation, error) {
	var out []domain.Donation
	if err := c.do(ctx, http.MethodGet, "/donations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches one donation. A missing id yields an error matching domain.ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (domain.Donation, error) {
	var out domain.Donation
	err := c.do(ctx, http.MethodGet, "/donations/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) Create(ctx context.Context, req CreateRequest) (domain.Donation, error) {
	var out domain.Donation
	err := c.do(ctx, http.MethodPost, "/donations", req, &out)
	return out, err
}

func (c *Client) Update(ctx context.Context, id string, req UpdateRequest) (domain.Donation, error) {
	var out domain.Donation
	err := c.do(ctx, http.MethodPut, "/donations/"+url.PathEscape(id), req, &out)
	return out, err
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/donations/"+url.PathEscape(id), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (domain.Statistics, error) {
	var out domain.Statistics
	err := c.do(ctx, http.MethodGet, "/donations/stats", nil, &out)
	return out, err
}

func (c *Client) Types(ctx context.Context) ([]TypeOption, error) {
	var out []TypeOption
	if err := c.do(ctx, http.MethodGet, "/donations/types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
		apiErr.Detail = string(bytes.TrimSpace(raw))
	}
	return apiErr
}
