// Package client talks to a running diagram daemon over HTTP.
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
	"strconv"
	"time"

	"github.com/rmax-ai/diagrammer/pkg/editor"
)

const DefaultEndpoint = "http://127.0.0.1:8090"

// Client is the diagram daemon SDK client.
type Client struct {
	endpoint   string
	http       *http.Client
	backoff    BackoffStrategy
	maxRetries int
}

type Option func(*Client)

// WithHTTPClient replaces the default 10s-timeout HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRetries sets how often idempotent reads are retried on transport
// errors and 5xx responses.
func WithRetries(n int, b BackoffStrategy) Option {
	return func(c *Client) {
		c.maxRetries = n
		if b != nil {
			c.backoff = b
		}
	}
}

// NewClient creates a client. endpoint defaults to DefaultEndpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		http:       &http.Client{Timeout: 10 * time.Second},
		backoff:    DefaultBackoff(),
		maxRetries: 2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string { return c.endpoint }

// Ping checks the health of the daemon.
func (c *Client) Ping(ctx context.Context) (Status, error) {
	var status Status
	err := c.getJSON(ctx, "/v1/health", &status)
	return status, err
}

// SendEvent applies one input event and returns the resulting state. Events
// are not idempotent and are never retried.
func (c *Client) SendEvent(ctx context.Context, ev editor.Event) (editor.Snapshot, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return editor.Snapshot{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/events", bytes.NewReader(body))
	if err != nil {
		return editor.Snapshot{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return editor.Snapshot{}, fmt.Errorf("daemon unreachable: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return editor.Snapshot{}, err
	}

	var snap editor.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return editor.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// GetGraph fetches the current diagram state.
func (c *Client) GetGraph(ctx context.Context) (editor.Snapshot, error) {
	var snap editor.Snapshot
	err := c.getJSON(ctx, "/v1/graph", &snap)
	return snap, err
}

// RenderPNG fetches a width×height PNG of the diagram. Zero dimensions use
// the daemon defaults.
func (c *Client) RenderPNG(ctx context.Context, width, height int) ([]byte, error) {
	q := url.Values{}
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	if height > 0 {
		q.Set("h", strconv.Itoa(height))
	}
	path := "/v1/render.png"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var data []byte
	err := c.get(ctx, path, func(r io.Reader) error {
		var err error
		data, err = io.ReadAll(r)
		return err
	})
	return data, err
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	return c.get(ctx, path, func(r io.Reader) error {
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return fmt.Errorf("failed to decode %s: %w", path, err)
		}
		return nil
	})
}

// get issues a GET, retrying transport errors and 5xx responses.
func (c *Client) get(ctx context.Context, path string, read func(io.Reader) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff.Next(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.getOnce(ctx, path, read)
		if lastErr == nil {
			return nil
		}
		var apiErr *APIError
		if errors.As(lastErr, &apiErr) && !apiErr.Temporary() {
			return lastErr
		}
		if ctx.Err() != nil {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) getOnce(ctx context.Context, path string, read func(io.Reader) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	return read(resp.Body)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	apiErr := &APIError{StatusCode: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = fmt.Sprintf("unexpected_status_%d", resp.StatusCode)
	}
	apiErr.StatusCode = resp.StatusCode
	return apiErr
}
