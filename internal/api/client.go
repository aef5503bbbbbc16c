// Package api implements the HTTP client for the inference endpoint.
package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog/log"

	"github.com/diogo/askai/internal/models"
)

// HTTPDoer is the subset of tls_client.HttpClient used by Client
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
	CloseIdleConnections()
}

// AskClient is the interface implemented by Client and MockClient
type AskClient interface {
	Ask(ctx context.Context, prompt string) (string, error)
	Endpoint() string
	Close()
}

// Client posts prompts to the inference endpoint
type Client struct {
	httpClient HTTPDoer
	endpoint   string
	timeout    time.Duration
	mu         sync.RWMutex
	closed     bool
}

var _ AskClient = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint sets the URL prompts are posted to
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithTimeout bounds every exchange. Zero disables the timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(httpClient HTTPDoer) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint: models.DefaultEndpoint,
		timeout:  models.DefaultTimeoutSeconds * time.Second,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Deadlines are enforced per request through the context, so the
		// transport itself carries no timeout.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	log.Debug().
		Str("endpoint", client.endpoint).
		Dur("timeout", client.timeout).
		Msg("api client created")

	return client, nil
}

// Endpoint returns the URL prompts are posted to
func (c *Client) Endpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.endpoint
}

// Timeout returns the per-exchange timeout, zero meaning none
func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// Close releases idle connections; further calls to Ask fail
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
