// Package upstream implements the REST client for the remote product
// collection service.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hdnguyen/catalog-console/internal/catalog"
)

// ProductPayload is the request body for create and update calls.
type ProductPayload struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	CategoryID  int64    `json:"categoryId"`
	Images      []string `json:"images"`
}

// APIError is a non-2xx response from the collection service. Message carries
// the server-provided message when the body was structured, else the raw body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.Status, e.Message)
}

// Client talks to the remote collection service.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a client for the collection service at baseURL.
// The timeout applies to every request issued through the client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("component", "upstream"),
	}
}

// FetchAll retrieves the full product collection.
func (c *Client) FetchAll(ctx context.Context) ([]catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch request: %w", err)
	}
	var products []catalog.Product
	if err := c.do(req, &products); err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "Fetched product collection", "count", len(products))
	return products, nil
}

// Create submits a new product and returns the created record with its
// assigned ID.
func (c *Client) Create(ctx context.Context, payload ProductPayload) (*catalog.Product, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, c.baseURL+"/products", payload)
	if err != nil {
		return nil, err
	}
	var created catalog.Product
	if err := c.do(req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update submits new field values for the product with the given ID and
// returns the updated record.
func (c *Client) Update(ctx context.Context, id int64, payload ProductPayload) (*catalog.Product, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	req, err := c.newJSONRequest(ctx, http.MethodPut, url, payload)
	if err != nil {
		return nil, err
	}
	var updated catalog.Product
	if err := c.do(req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// newJSONRequest builds a request with a JSON-encoded body.
func (c *Client) newJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes the request, decoding a 2xx response into out and turning any
// other response into an *APIError.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to collection service failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// errorFrom extracts the server message from an error response. Bodies that
// are not valid structured data are surfaced as plain text.
func (c *Client) errorFrom(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &APIError{Status: resp.StatusCode}
	}
	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &structured); err == nil && structured.Message != "" {
		return &APIError{Status: resp.StatusCode, Message: structured.Message}
	}
	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
