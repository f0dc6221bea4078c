//
// Copyright (C) 2025 The whoop-mcp Authors.  All rights reserved.
//
// whoop-mcp is licensed under the Apache License Version 2.0.
//
//

// Package whoop is a client for the WHOOP app's internal web API. It fetches
// the home screen and the per-domain deep dive screens for a date, and
// decodes their widget trees into typed variants.
package whoop

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
	"sync"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/janaksunil/whoop-mcp/internal/metrics"
	"github.com/janaksunil/whoop-mcp/log"
	"github.com/janaksunil/whoop-mcp/telemetry/trace"
)

const (
	// DefaultBaseURL is the app API host.
	DefaultBaseURL = "https://api.prod.whoop.com"
	// DefaultAuthURL is the password grant endpoint.
	DefaultAuthURL = "https://api.prod.whoop.com/oauth/token"
	// DefaultUserAgent identifies this client.
	DefaultUserAgent = "whoop-mcp/1.0"
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second

	pathHome     = "/home-service/v1/home"
	pathDeepDive = "/home-service/v1/deep-dive/"

	// tokenLeeway refreshes a cached token shortly before it expires.
	tokenLeeway = time.Minute
	// fallbackTokenTTL applies when neither the token nor the grant
	// response carries an expiry.
	fallbackTokenTTL = time.Hour
	// maxErrorBody caps how much of an error body is kept.
	maxErrorBody = 512
)

var (
	// ErrMissingCredentials is returned when neither an access token nor a
	// username and password are configured.
	ErrMissingCredentials = errors.New("whoop: no access token or username/password configured")
	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("whoop: unauthorized")
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("whoop: not found")
)

// StatusError is returned for unexpected HTTP statuses.
type StatusError struct {
	Code int
	Body string
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("whoop: API returned status %d: %s", e.Code, e.Body)
}

// DeepDiveKind selects a deep dive screen.
type DeepDiveKind string

// Deep dive screens.
const (
	DeepDiveRecovery DeepDiveKind = "recovery"
	DeepDiveStrain   DeepDiveKind = "strain"
	DeepDiveSleep    DeepDiveKind = "sleep"
)

// Fetcher returns screens for a calendar date formatted as YYYY-MM-DD.
type Fetcher interface {
	Home(ctx context.Context, date string) (*Payload, error)
	DeepDive(ctx context.Context, kind DeepDiveKind, date string) (*Payload, error)
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets the API host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithAuthURL sets the password grant endpoint.
func WithAuthURL(authURL string) Option {
	return func(c *Client) { c.authURL = authURL }
}

// WithUserAgent sets the user agent for HTTP requests.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) { c.userAgent = userAgent }
}

// WithHTTPClient sets the HTTP client to use.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithAccessToken uses a fixed bearer token and skips the password grant.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.staticToken = token }
}

// WithCredentials enables the password grant.
func WithCredentials(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// Client talks to the backend. It is safe for concurrent use; the only
// state shared between calls is the cached access token.
type Client struct {
	baseURL     string
	authURL     string
	userAgent   string
	httpClient  *http.Client
	staticToken string
	username    string
	password    string
	now         func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

var _ Fetcher = (*Client)(nil)

// New creates a Client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		authURL:    DefaultAuthURL,
		userAgent:  DefaultUserAgent,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Home fetches the home screen for date.
func (c *Client) Home(ctx context.Context, date string) (*Payload, error) {
	return c.getPayload(ctx, "home", pathHome, date)
}

// DeepDive fetches the deep dive screen of kind for date.
func (c *Client) DeepDive(ctx context.Context, kind DeepDiveKind, date string) (*Payload, error) {
	switch kind {
	case DeepDiveRecovery, DeepDiveStrain, DeepDiveSleep:
	default:
		return nil, fmt.Errorf("whoop: unknown deep dive %q", kind)
	}
	return c.getPayload(ctx, "deep_dive_"+string(kind), pathDeepDive+string(kind), date)
}

func (c *Client) getPayload(ctx context.Context, endpoint, path, date string) (*Payload, error) {
	ctx, span := trace.Tracer.Start(ctx, "whoop.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("whoop.endpoint", endpoint),
		attribute.String("whoop.date", date),
	)

	start := time.Now()
	body, status, err := c.get(ctx, path, url.Values{"date": {date}})
	metrics.RecordBackendRequest(endpoint, status, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	payload, err := DecodePayload(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if payload.Date == "" {
		payload.Date = date
	}
	return payload, nil
}

// get performs an authorised GET and returns the body of a 200 response.
// status is the HTTP status, or 0 when no response was received.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, resp.StatusCode, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.invalidateToken()
		return nil, resp.StatusCode, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return nil, resp.StatusCode, ErrNotFound
	default:
		return nil, resp.StatusCode, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}
}

// accessToken returns a usable bearer token, running the password grant when
// the cached one is missing or about to expire.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.staticToken != "" {
		return c.staticToken, nil
	}
	if c.username == "" || c.password == "" {
		return "", ErrMissingCredentials
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Add(tokenLeeway).Before(c.expiresAt) {
		return c.token, nil
	}

	token, expiresAt, err := c.login(ctx)
	if err != nil {
		return "", err
	}
	c.token, c.expiresAt = token, expiresAt
	log.Debugf("whoop: obtained access token valid until %s", expiresAt.Format(time.RFC3339))
	return token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}

type grantRequest struct {
	GrantType string `json:"grant_type"`
	Username  string `json:"username"`
	Password  string `json:"password"`
}

type grantResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   json.RawMessage `json:"expires_in"`
}

func (c *Client) login(ctx context.Context) (string, time.Time, error) {
	payload, err := json.Marshal(grantRequest{
		GrantType: "password",
		Username:  c.username,
		Password:  c.password,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to encode grant: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, bytes.NewReader(payload))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to perform auth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read auth response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return "", time.Time{}, fmt.Errorf("%w: login rejected with status %d", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return "", time.Time{}, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}

	var grant grantResponse
	if err := json.Unmarshal(body, &grant); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to parse auth response: %w", err)
	}
	if grant.AccessToken == "" {
		return "", time.Time{}, errors.New("whoop: auth response carried no access token")
	}
	return grant.AccessToken, c.tokenExpiry(grant), nil
}

// tokenExpiry prefers the exp claim of a JWT access token, then expires_in,
// then a fixed TTL.
func (c *Client) tokenExpiry(grant grantResponse) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(grant.AccessToken, &claims); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	if secs, ok := parseSeconds(grant.ExpiresIn); ok {
		return c.now().Add(time.Duration(secs) * time.Second)
	}
	return c.now().Add(fallbackTokenTTL)
}

// parseSeconds accepts expires_in as a JSON number or numeric string.
func parseSeconds(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := n.Int64(); err == nil && v > 0 {
			return v, true
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil && v > 0 {
			return v, true
		}
	}
	return 0, false
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
