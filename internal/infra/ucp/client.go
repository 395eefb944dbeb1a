// Package ucp is the HTTP adapter for the upstream UCP commerce service.
// The Client calls the flower-shop REST API using stdlib net/http.
// Endpoints used:
//   - GET  /.well-known/ucp          — capability discovery
//   - GET  /products                 — list catalog
//   - GET  /products/{id}            — product detail
//   - POST /checkouts                — create checkout session
//   - GET  /checkouts/{id}           — checkout state
//   - PUT  /checkouts/{id}           — update checkout (fulfillment/discount)
//   - POST /checkouts/{id}/submit    — finalize checkout into an order
//   - GET  /orders                   — list orders
//   - GET  /orders/{id}              — order detail
//   - GET  /health                   — health check
//
// Response bodies are returned as raw JSON: the bridge never interprets
// upstream payload structure, it only forwards it.
package ucp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	// DefaultTimeout bounds a single upstream round trip. There is exactly
	// one attempt per invocation; no retry or backoff.
	DefaultTimeout = 30 * time.Second
)

// Client calls the upstream UCP commerce REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for baseURL. A non-positive timeout falls
// back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Discover fetches the merchant capability discovery profile.
func (c *Client) Discover(ctx context.Context) (json.RawMessage, error) {
	return c.doGet(ctx, "/.well-known/ucp")
}

// ListProducts fetches the product catalog. maxPrice, when non-nil, is
// forwarded as a max_price query parameter; a nil maxPrice forwards zero
// query parameters.
func (c *Client) ListProducts(ctx context.Context, maxPrice *float64) (json.RawMessage, error) {
	path := "/products"
	if maxPrice != nil {
		path += "?max_price=" + strconv.FormatFloat(*maxPrice, 'f', -1, 64)
	}
	return c.doGet(ctx, path)
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (json.RawMessage, error) {
	return c.doGet(ctx, "/products/"+url.PathEscape(productID))
}

// CreateCheckout creates a new checkout session from the given request body.
func (c *Client) CreateCheckout(ctx context.Context, body json.RawMessage) (json.RawMessage, error) {
	return c.doSend(ctx, http.MethodPost, "/checkouts", body)
}

// GetCheckout fetches the current state of a checkout session.
func (c *Client) GetCheckout(ctx context.Context, checkoutID string) (json.RawMessage, error) {
	return c.doGet(ctx, "/checkouts/"+url.PathEscape(checkoutID))
}

// UpdateCheckout applies fulfillment/discount updates to a checkout session.
func (c *Client) UpdateCheckout(ctx context.Context, checkoutID string, body json.RawMessage) (json.RawMessage, error) {
	return c.doSend(ctx, http.MethodPut, "/checkouts/"+url.PathEscape(checkoutID), body)
}

// SubmitCheckout finalizes a checkout session into an order.
func (c *Client) SubmitCheckout(ctx context.Context, checkoutID string, body json.RawMessage) (json.RawMessage, error) {
	return c.doSend(ctx, http.MethodPost, "/checkouts/"+url.PathEscape(checkoutID)+"/submit", body)
}

// GetOrder fetches a completed order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return c.doGet(ctx, "/orders/"+url.PathEscape(orderID))
}

// ListOrders fetches all orders.
func (c *Client) ListOrders(ctx context.Context) (json.RawMessage, error) {
	return c.doGet(ctx, "/orders")
}

// HealthCheck calls GET /health — returns nil if the upstream is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("ucp healthcheck: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ucp healthcheck: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ucp healthcheck: status %d", resp.StatusCode)
	}
	return nil
}

// ===== HELPERS =====

// doGet issues a GET against baseURL+path and returns the raw body.
func (c *Client) doGet(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("ucp get %s: build request: %w", path, err)
	}
	return c.do(req, path)
}

// doSend issues a request with a JSON body and returns the raw response body.
func (c *Client) doSend(ctx context.Context, method, path string, body json.RawMessage) (json.RawMessage, error) {
	if len(body) == 0 {
		body = json.RawMessage(`{}`)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ucp %s %s: build request: %w", method, path, err)
	}
	req.Header.Set(headerContentType, mimeJSON)
	return c.do(req, path)
}

// do executes the request, mapping non-2xx responses to *UpstreamError and
// returning the body otherwise.
func (c *Client) do(req *http.Request, path string) (json.RawMessage, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ucp %s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ucp %s %s: read body: %w", req.Method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newUpstreamError(resp.StatusCode, payload)
	}

	if len(payload) > 0 && !json.Valid(payload) {
		return nil, fmt.Errorf("ucp %s %s: malformed response body", req.Method, path)
	}
	return payload, nil
}
