// internal/common/http/client.go

// Package http carries the shared outbound HTTP client used by the mailbox
// and commerce adapters. Requests are built per adapter with
// http.NewRequestWithContext; the wrapper owns only the transport timeout.
package http

import (
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	httpClient *http.Client
}

// NewClient returns a client with the given per-request timeout. A
// non-positive timeout falls back to the default so an adapter can never
// hang indefinitely on a remote API.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do executes the request; the context attached to the request governs
// cancellation alongside the client timeout.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
