// Package pingone is the HTTP client for the PingOne management API. It
// authenticates with the client-credentials grant against the environment's
// auth host and submits create-user calls with the bulk-import content
// type.
package pingone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/vk/pingone-import/internal/payload"
)

// importContentType marks a create-user call as a bulk import, which
// relaxes server-side validation such as password policy checks.
const importContentType = "application/vnd.pingidentity.user.import+json"

// defaultTimeout bounds a single create-user call so one hung request
// cannot occupy a worker slot indefinitely.
const defaultTimeout = 30 * time.Second

// Config holds everything needed to reach one PingOne environment.
type Config struct {
	AuthHost      string
	APIHost       string
	EnvironmentID string
	ClientID      string
	ClientSecret  string

	// Timeout applies per request. Zero means defaultTimeout.
	Timeout time.Duration
}

// APIError is a non-2xx response from the API. The body is retained so
// per-record rejections can be diagnosed from the log.
type APIError struct {
	StatusCode int
	Body       string
}

// Error implements the error interface for APIError.
func (e *APIError) Error() string {
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// Client submits user documents to a single environment's users
// collection. It is safe for concurrent use; the embedded token source
// refreshes the bearer token as needed.
type Client struct {
	httpClient *http.Client
	usersURL   string
}

// New returns a Client wired with a client-credentials token source. The
// provided context bounds the lifetime of token refresh requests.
func New(ctx context.Context, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	// The oauth2 transport wraps this base client, so both token requests
	// and API calls share the timeout and pooled transport.
	base := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://%s/%s/as/token", cfg.AuthHost, cfg.EnvironmentID),
	}

	httpClient := creds.Client(ctx)
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		usersURL:   fmt.Sprintf("https://%s/v1/environments/%s/users", cfg.APIHost, cfg.EnvironmentID),
	}
}

// NewWithHTTPClient returns a Client that submits to usersURL with the
// given HTTP client, bypassing OAuth2 wiring. Intended for tests and for
// callers that manage authentication themselves.
func NewWithHTTPClient(httpClient *http.Client, usersURL string) *Client {
	return &Client{httpClient: httpClient, usersURL: usersURL}
}

// CreateUser submits one user document. A nil return means the API
// accepted the user; any transport failure or non-2xx status is returned
// as an error, with API rejections typed as *APIError.
func (c *Client) CreateUser(ctx context.Context, user payload.User) error {
	body, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.usersURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", importContentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)
	return nil
}
