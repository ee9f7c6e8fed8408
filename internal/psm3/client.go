package psm3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// APIError is returned when the NSRDB API answers with a non-2xx status
type APIError struct {
	StatusCode int
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("PSM3 API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("PSM3 API returned status %d: %s", e.StatusCode, strings.Join(e.Errors, "; "))
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Errors) > 0 {
		return &APIError{StatusCode: status, Errors: payload.Errors}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return &APIError{StatusCode: status, Errors: []string{msg}}
	}
	return &APIError{StatusCode: status}
}

// Client downloads PSM3 datasets
type Client struct {
	client  *resty.Client
	tmyURL  string
	psm3URL string
	breaker *gobreaker.CircuitBreaker
}

// Option configures a Client
type Option func(*Client)

// WithEndpoints overrides the TMY and single-year download URLs
func WithEndpoints(tmyURL, psm3URL string) Option {
	return func(c *Client) {
		if tmyURL != "" {
			c.tmyURL = tmyURL
		}
		if psm3URL != "" {
			c.psm3URL = psm3URL
		}
	}
}

// WithBreaker routes every download through a circuit breaker
func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

// NewClient creates a PSM3 client. The resty client must not be configured
// to retry; a failed download is reported to the caller as is.
func NewClient(client *resty.Client, opts ...Option) *Client {
	c := &Client{
		client:  client,
		tmyURL:  TMYURL,
		psm3URL: PSM3URL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewHTTPClient returns a resty client with the given timeout and no retries
func NewHTTPClient(timeout time.Duration) *resty.Client {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "text/csv")
	return client
}

// NewBreaker opens after three consecutive failed downloads and lets a trial request through after two minutes
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

// Fetch downloads and parses one dataset
func (c *Client) Fetch(ctx context.Context, req Request) (*Dataset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	url := c.psm3URL
	if req.IsTMY() {
		url = c.tmyURL
	}

	body, err := c.download(ctx, url, req.QueryParams())
	if err != nil {
		return nil, err
	}

	ds, err := Parse(bytes.NewReader(body), req.CoerceYear)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PSM3 response: %w", err)
	}
	return ds, nil
}

func (c *Client) download(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	call := func() (interface{}, error) {
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(params).
			Get(url)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch PSM3 data: %w", err)
		}
		if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
			return nil, newAPIError(resp.StatusCode(), resp.Body())
		}
		return resp.Body(), nil
	}

	if c.breaker == nil {
		body, err := call()
		if err != nil {
			return nil, err
		}
		return body.([]byte), nil
	}

	body, err := c.breaker.Execute(call)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("PSM3 downloads suspended after repeated failures: %w", err)
		}
		return nil, err
	}
	return body.([]byte), nil
}
