// Package authclient validates bearer tokens against the auth service over
// HTTP. It is the reservation service's only coupling to the auth service.
package authclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/example/venue-booking/internal/application"
)

const (
	validatePath   = "/auth/validate"
	defaultTimeout = 5 * time.Second

	// responses are tiny; anything larger is not a validation payload.
	maxResponseBytes = 1 << 16
)

// Client calls the auth service's validate endpoint. It implements
// application.ClaimValidator. Every request forwards the caller's
// Authorization header verbatim; results are never cached.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout overrides the default 5 second request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a Client targeting the auth service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("authclient: base URL is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("authclient: invalid base URL: %w", err)
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type validateResponse struct {
	Valid   bool `json:"valid"`
	Payload struct {
		Subject string `json:"sub"`
		Role    string `json:"role"`
		Exp     int64  `json:"exp"`
	} `json:"payload"`
}

// Validate forwards the Authorization header to the auth service and returns
// the validated claims. Transport failures and non-200 statuses surface as
// application.ErrAuthUnavailable except 401, which means the token was
// rejected.
func (c *Client) Validate(ctx context.Context, authorizationHeader string) (application.ClaimSet, error) {
	if strings.TrimSpace(authorizationHeader) == "" {
		return application.ClaimSet{}, fmt.Errorf("%w: missing authorization header", application.ErrUnauthenticated)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+validatePath, nil)
	if err != nil {
		return application.ClaimSet{}, fmt.Errorf("authclient: build request: %w", err)
	}
	req.Header.Set("Authorization", authorizationHeader)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return application.ClaimSet{}, fmt.Errorf("%w: %v", application.ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return application.ClaimSet{}, fmt.Errorf("%w: read response: %v", application.ErrAuthUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized:
		return application.ClaimSet{}, fmt.Errorf("%w: token rejected", application.ErrUnauthenticated)
	default:
		return application.ClaimSet{}, fmt.Errorf("%w: unexpected status %d", application.ErrAuthUnavailable, resp.StatusCode)
	}

	var decoded validateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return application.ClaimSet{}, fmt.Errorf("%w: malformed response: %v", application.ErrAuthUnavailable, err)
	}
	if !decoded.Valid {
		return application.ClaimSet{}, fmt.Errorf("%w: token rejected", application.ErrUnauthenticated)
	}

	role, err := application.ParseRole(decoded.Payload.Role)
	if err != nil {
		return application.ClaimSet{}, fmt.Errorf("%w: %v", application.ErrUnauthenticated, err)
	}
	if decoded.Payload.Subject == "" {
		return application.ClaimSet{}, fmt.Errorf("%w: missing subject", application.ErrUnauthenticated)
	}

	claims := application.ClaimSet{
		Subject: decoded.Payload.Subject,
		Role:    role,
	}
	if decoded.Payload.Exp > 0 {
		claims.ExpiresAt = time.Unix(decoded.Payload.Exp, 0).UTC()
	}
	return claims, nil
}
