package checkout

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
)

const (
	ordersPath        = "/v2/checkout/orders"
	maxErrorBodyBytes = 2048
)

// ErrOrderNotCompleted is matched by the error CaptureOrder returns when the
// API accepts the capture but the order is not COMPLETED.
var ErrOrderNotCompleted = errors.New("checkout: order not completed")

// APIError reports a non-2xx response from the orders API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("checkout: API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("checkout: API error: status %d: %s", e.StatusCode, e.Body)
}

// Client calls the checkout orders API. The HTTP client must attach the bearer
// token, e.g. one built with httpclient.NewBuilder().WithTokenProvider(rt).
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for baseURL (e.g. oauth2client.SandboxBaseURL).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// CreateOrder creates a new order.
func (c *Client) CreateOrder(ctx context.Context, order CreateOrder) (*OrderDetails, error) {
	body, err := json.Marshal(order.withDefaults())
	if err != nil {
		return nil, fmt.Errorf("checkout: encode order: %w", err)
	}
	return c.do(ctx, http.MethodPost, ordersPath, body)
}

// GetOrder fetches an order by id.
func (c *Client) GetOrder(ctx context.Context, id string) (*OrderDetails, error) {
	if id == "" {
		return nil, errors.New("checkout: order id is required")
	}
	return c.do(ctx, http.MethodGet, ordersPath+"/"+url.PathEscape(id), nil)
}

// CaptureOrder captures payment for an approved order. The returned details
// are also returned alongside ErrOrderNotCompleted when the order did not
// reach COMPLETED.
func (c *Client) CaptureOrder(ctx context.Context, id string) (*OrderDetails, error) {
	if id == "" {
		return nil, errors.New("checkout: order id is required")
	}
	details, err := c.do(ctx, http.MethodPost, ordersPath+"/"+url.PathEscape(id)+"/capture", []byte("{}"))
	if err != nil {
		return nil, err
	}
	if details.Status != OrderCompleted {
		return details, fmt.Errorf("%w: status %s", ErrOrderNotCompleted, details.Status)
	}
	return details, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*OrderDetails, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("checkout: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("checkout: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var details OrderDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return nil, fmt.Errorf("checkout: decode order: %w", err)
	}
	return &details, nil
}
