// Package client is a typed Go client for the SAE inference API.
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

	"github.com/S-Corkum/sae-inference/pkg/models"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
)

// Client defaults
const (
	DefaultTimeout         = 30 * time.Second
	DefaultMaxRetries      = 3
	DefaultRetryInterval   = 200 * time.Millisecond
	DefaultUserAgent       = "sae-inference-client"
	defaultBreakerName     = "sae-api"
	maxErrorBodyBytes      = 4096
	breakerMinimumRequests = 5
)

// APIError is returned for responses the server rejected with a 4xx or 5xx
// status
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sae api: status %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying the request could succeed
func (e *APIError) Temporary() bool {
	return e.StatusCode >= http.StatusInternalServerError || e.StatusCode == http.StatusTooManyRequests
}

// Client talks to an SAE inference server
type Client struct {
	baseURL       string
	userAgent     string
	httpClient    *http.Client
	maxRetries    int
	retryInterval time.Duration
	breaker       *gobreaker.CircuitBreaker
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMaxRetries sets how many times a failed request is retried; zero
// disables retries
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryInterval sets the initial backoff interval
func WithRetryInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.retryInterval = d
		}
	}
}

// WithBreakerSettings replaces the circuit breaker settings. IsSuccessful is
// always overridden so client errors never trip the breaker.
func WithBreakerSettings(settings gobreaker.Settings) ClientOption {
	return func(c *Client) {
		c.breaker = newBreaker(settings)
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a new SAE inference client
func NewClient(baseURL string, options ...ClientOption) *Client {
	client := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		maxRetries:    DefaultMaxRetries,
		retryInterval: DefaultRetryInterval,
	}

	for _, option := range options {
		option(client)
	}

	if client.breaker == nil {
		client.breaker = newBreaker(gobreaker.Settings{})
	}

	return client
}

func newBreaker(settings gobreaker.Settings) *gobreaker.CircuitBreaker {
	if settings.Name == "" {
		settings.Name = defaultBreakerName
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.ReadyToTrip == nil {
		settings.ReadyToTrip = func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= breakerMinimumRequests && failureRatio >= 0.5
		}
	}
	settings.IsSuccessful = isSuccessful
	return gobreaker.NewCircuitBreaker(settings)
}

// isSuccessful counts everything except server and transport failures as a
// breaker success
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return !apiErr.Temporary()
	}
	return false
}

// BreakerState reports the current circuit breaker state
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Health checks the server health endpoint
func (c *Client) Health(ctx context.Context) (*models.HealthStatus, error) {
	var result models.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &result); err != nil {
		return nil, errors.Wrap(err, "health check failed")
	}
	return &result, nil
}

type encodeRequest struct {
	Text  string `json:"text"`
	Layer *int   `json:"layer,omitempty"`
}

// Encode returns the token-level feature activations for text. A nil layer
// uses the server default.
func (c *Client) Encode(ctx context.Context, text string, layer *int) (*models.EncodingResult, error) {
	var result models.EncodingResult
	if err := c.do(ctx, http.MethodPost, "/sae/encode", encodeRequest{Text: text, Layer: layer}, &result); err != nil {
		return nil, errors.Wrap(err, "encode failed")
	}
	return &result, nil
}

// Feature returns the metadata of one feature
func (c *Client) Feature(ctx context.Context, id int) (*models.FeatureMetadata, error) {
	var result models.FeatureMetadata
	if err := c.do(ctx, http.MethodGet, "/sae/feature/"+strconv.Itoa(id), nil, &result); err != nil {
		return nil, errors.Wrapf(err, "feature %d lookup failed", id)
	}
	return &result, nil
}

// Search returns features ranked by relevance to query. A nil limit uses the
// server default.
func (c *Client) Search(ctx context.Context, query string, limit *int) (*models.SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	if limit != nil {
		params.Set("limit", strconv.Itoa(*limit))
	}

	var result models.SearchResult
	if err := c.do(ctx, http.MethodGet, "/sae/search?"+params.Encode(), nil, &result); err != nil {
		return nil, errors.Wrap(err, "search failed")
	}
	return &result, nil
}

// do performs a request through the circuit breaker, retrying server and
// transport failures with exponential backoff
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	b.MaxElapsedTime = 0

	operation := func() error {
		_, err := c.breaker.Execute(func() (interface{}, error) {
			return nil, c.roundTrip(ctx, method, path, payload, result)
		})
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(err)
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx))
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, result interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.Wrap(err, "failed to decode response")
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

	var errResp struct {
		Error string `json:"error"`
	}
	message := strings.TrimSpace(string(data))
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != "" {
		message = errResp.Error
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return &APIError{StatusCode: resp.StatusCode, Message: message}
}
