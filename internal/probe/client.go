package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxBodyBytes caps how much of a response the probe reads.
const maxBodyBytes = 1 << 20

// response is what the checks need from one HTTP exchange.
type response struct {
	Status   int
	Header   http.Header
	Body     []byte
	Duration time.Duration
}

// HTTPClient wraps http.Client with the probe's timeout and Origin header.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	origin  string
}

// newHTTPClient creates a new HTTP client. A nil client gets one with timeout.
func newHTTPClient(client *http.Client, baseURL, origin string, timeout time.Duration) *HTTPClient {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPClient{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		origin:  origin,
	}
}

// Do sends a bodiless request to path and reads the whole response.
func (c *HTTPClient) Do(ctx context.Context, method, path string) (response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return response{}, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return response{}, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return response{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     body,
		Duration: time.Since(start),
	}, nil
}
