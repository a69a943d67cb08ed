// Package source fetches the pantry catalog and telemetry history from their
// upstreams.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrUnavailable is returned for any upstream failure: transport errors,
// non-2xx responses and malformed bodies alike.
var ErrUnavailable = errors.New("source unavailable")

// maxBodyBytes bounds upstream response bodies.
const maxBodyBytes = 16 << 20

// Client performs GET requests with bounded retries.
type Client struct {
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 2,
		retryDelay: 250 * time.Millisecond,
	}
}

// WithRetry overrides the retry policy. Zero retries means one attempt.
func (c *Client) WithRetry(maxRetries int, delay time.Duration) *Client {
	c.maxRetries = maxRetries
	c.retryDelay = delay
	return c
}

// statusError is a non-2xx upstream response.
type statusError struct {
	status int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("upstream returned %d", e.status)
}

// retryable reports whether another attempt may succeed.
func retryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.status >= 500 || se.status == http.StatusTooManyRequests
	}
	return true
}

// Get fetches url and returns the body of a 2xx response. Transport errors,
// 5xx and 429 responses are retried with exponential backoff.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		body, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if attempt == c.maxRetries || !retryable(err) {
			break
		}

		delay := time.Duration(float64(c.retryDelay) * math.Pow(2, float64(attempt)))
		log.Debug().Err(err).Str("url", url).Int("attempt", attempt+1).Dur("backoff", delay).Msg("retrying upstream request")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{status: resp.StatusCode}
	}
	return body, nil
}
