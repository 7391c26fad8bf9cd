// Package webhook posts submission payloads to the configured automation
// platform endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client posts JSON payloads to the automation webhook.
//
// The first attempt sends the full credential header set. A transport-level
// failure (not an HTTP error status) is retried exactly once with no headers
// beyond Content-Type; some automation platform gateways reject unexpected
// auth headers at the connection level, and the bare retry distinguishes that
// case from a genuine outage.
type Client struct {
	url     string
	key     string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// New creates a Client from the given configuration. The request timeout
// is enforced per attempt via context cancellation.
func New(cfg *Config, logger *slog.Logger) *Client {
	return &Client{
		url:     cfg.URL,
		key:     cfg.Key,
		timeout: cfg.TimeoutDuration(),
		http:    &http.Client{},
		logger:  logger.With("system", "webhook"),
	}
}

// Send posts the payload as JSON and returns the raw response body on any
// 2xx status. Non-2xx responses yield a *ResponseError carrying the status
// and body verbatim.
func (c *Client) Send(ctx context.Context, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	resp, err := c.attempt(ctx, data, true)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}

		c.logger.Warn("webhook request failed, retrying without headers", "error", err)

		resp, err = c.attempt(ctx, data, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ResponseError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	c.logger.Info("webhook accepted payload", "status", resp.StatusCode)
	return body, nil
}

func (c *Client) attempt(ctx context.Context, data []byte, withHeaders bool) (*http.Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if withHeaders {
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("x-api-key", c.key)
		req.Header.Set("x-make-apikey", c.key)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	// The response body escapes the attempt's timeout scope; read it fully
	// here so cancel does not abort a slow body stream mid-read.
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	return resp, nil
}
