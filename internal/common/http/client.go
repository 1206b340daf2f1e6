// internal/common/http/client.go
package http

import (
	"net/http"
	"time"
)

// Client is a thin wrapper around net/http with a hard per-request timeout.
// Outbound API calls (the generative-text gateway) go through this so the
// timeout is set in exactly one place.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}
