// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

// Package adsapi implements a client for the Amazon Advertising API v3
// (Sponsored Products).
//
// The client authenticates with a Login with Amazon (LWA) refresh token,
// keeps the sixty-minute access token fresh across calls, and exposes one
// method per resource operation: list, create, update and delete for
// campaigns, ad groups, product ads, keywords and negative keywords, plus
// asynchronous reporting and keyword/bid recommendations.
//
// Request and response records are plain maps shaped exactly like Amazon's
// JSON schema; the client does not reinterpret them. See
// https://advertising.amazon.com/API/docs for the schema reference.
package adsapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/muw78/amazon-ads-api-connector/adsapi/auth"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxResponseSize is the maximum response body size (10MB).
	DefaultMaxResponseSize = 10 * 1024 * 1024
	// DefaultRetryDelay is the initial delay between opt-in retries.
	DefaultRetryDelay = 100 * time.Millisecond
	// MaxRetryDelay is the maximum delay between retries.
	MaxRetryDelay = 5 * time.Second

	userAgent = "amazon-ads-api-connector/0.1.0"
)

// HTTPClient is the interface for making HTTP requests. It allows tests and
// callers to substitute a custom transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the configuration for an Advertising API client.
type Config struct {
	ClientID     string // Required: LWA client ID
	ClientSecret string // Required: LWA client secret
	RefreshToken string // Required: LWA refresh token
	ProfileID    string // Required: advertising profile (marketplace scope)

	Region   Region // API region (default: RegionEU)
	Endpoint string // Override the regional API endpoint (tests, sandboxes)
	AuthURL  string // Override the regional LWA token endpoint

	HTTPClient HTTPClient    // Custom HTTP client (default: pooled TLS client)
	Timeout    time.Duration // Request timeout (default: DefaultTimeout)

	// MaxRetries enables retrying throttled and failed requests
	// (408/429/5xx) with exponential backoff. Zero means requests pass
	// through unretried, which is the default.
	MaxRetries int
	RetryDelay time.Duration

	// RateLimit caps outgoing requests per second when positive; RateBurst
	// sets the bucket size (default: 1 when RateLimit > 0).
	RateLimit float64
	RateBurst int

	MaxResponseSize int64

	Debug  bool        // Log requests and token refreshes
	Logger *log.Logger // Custom logger (default: stdout, "[adsapi] " prefix)
}

// Client is an Amazon Advertising API v3 client scoped to one advertising
// profile. Methods are synchronous and safe for sequential use; the token
// source tolerates concurrent callers.
type Client struct {
	clientID        string
	profileID       string
	endpoint        string
	httpClient      HTTPClient
	tokens          *auth.TokenSource
	limiter         *RateLimiter
	metrics         *Metrics
	logger          *log.Logger
	debug           bool
	maxRetries      int
	retryDelay      time.Duration
	maxResponseSize int64
}

// BatchResult holds the per-record outcomes of a batch create, update or
// delete. The API reports each record under success or error, preserving the
// submission order via index fields; records are passed through unmodified.
type BatchResult struct {
	Success []map[string]any
	Error   []map[string]any
}

// NewClient creates a client and performs the initial token exchange, so a
// returned client holds a valid access token.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client secret is required")
	}
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	if cfg.ProfileID == "" {
		return nil, fmt.Errorf("profile ID is required")
	}

	region := cfg.Region
	if region == "" {
		region = RegionEU
	}
	if !region.Valid() {
		return nil, fmt.Errorf("unknown region %q", string(region))
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = region.Endpoint()
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = region.TokenURL()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	maxResponseSize := cfg.MaxResponseSize
	if maxResponseSize <= 0 {
		maxResponseSize = DefaultMaxResponseSize
	}

	httpClient := cfg.HTTPClient
	var authHTTP *http.Client
	if httpClient == nil {
		pooled := newHTTPClient(timeout)
		httpClient = pooled
		authHTTP = pooled
	} else if hc, ok := httpClient.(*http.Client); ok {
		authHTTP = hc
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[adsapi] ", log.LstdFlags)
	}

	tokens, err := auth.NewTokenSource(auth.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RefreshToken: cfg.RefreshToken,
		TokenURL:     authURL,
		HTTPClient:   authHTTP,
	})
	if err != nil {
		return nil, err
	}

	var limiter *RateLimiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = NewRateLimiter(cfg.RateLimit, burst)
	}

	c := &Client{
		clientID:        cfg.ClientID,
		profileID:       cfg.ProfileID,
		endpoint:        strings.TrimSuffix(endpoint, "/"),
		httpClient:      httpClient,
		tokens:          tokens,
		limiter:         limiter,
		metrics:         NewMetrics(),
		logger:          logger,
		debug:           cfg.Debug,
		maxRetries:      cfg.MaxRetries,
		retryDelay:      retryDelay,
		maxResponseSize: maxResponseSize,
	}

	if err := tokens.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("initial token exchange failed: %w", err)
	}
	c.debugf("client ready (endpoint=%s, profile=%s)", c.endpoint, c.profileID)

	return c, nil
}

// Metrics returns a snapshot of the client's request metrics.
func (c *Client) Metrics() *MetricsSnapshot {
	return c.metrics.Snapshot()
}

// RefreshToken returns the current LWA refresh token. Amazon rotates it on
// every exchange; callers that persist credentials should store this value
// after use.
func (c *Client) RefreshToken() string {
	return c.tokens.RefreshToken()
}

// TokenRefreshes returns the number of token exchanges performed.
func (c *Client) TokenRefreshes() int64 {
	return c.tokens.Refreshes()
}

// do marshals body (when non-nil), sends the request and returns the raw
// response body. 200 and 207 are success; everything else becomes *APIError.
func (c *Client) do(ctx context.Context, method, path, mediaType string, body any) ([]byte, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	data, err := c.send(ctx, method, path, mediaType, payload)
	c.metrics.RecordRequest(time.Since(start), err)
	return data, err
}

// send runs the optional retry loop around roundTrip. With MaxRetries zero
// (the default) a request is attempted exactly once and its outcome passed
// through.
func (c *Client) send(ctx context.Context, method, path, mediaType string, payload []byte) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		data, err := c.roundTrip(ctx, method, path, mediaType, payload)
		if err == nil {
			return data, nil
		}

		var apiErr *APIError
		if attempt >= c.maxRetries || !errors.As(err, &apiErr) || !isRetryableStatus(apiErr.StatusCode) {
			return nil, err
		}

		delay := c.backoff(attempt + 1)
		if apiErr.RetryAfter > delay {
			delay = apiErr.RetryAfter
		}
		c.metrics.RecordRetry()
		c.debugf("retrying %s %s after %v (attempt %d/%d, status %d)",
			method, path, delay, attempt+1, c.maxRetries, apiErr.StatusCode)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// roundTrip performs one request. On 401 the access token is discarded,
// re-exchanged and the request repeated exactly once; a second 401 surfaces
// as an error.
func (c *Client) roundTrip(ctx context.Context, method, path, mediaType string, payload []byte) ([]byte, error) {
	c.debugf("%s %s", method, path)

	resp, err := c.dispatch(ctx, method, path, mediaType, payload)
	if err != nil {
		return nil, err
	}
	data, status, err := c.readResponse(resp)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.debugf("received 401, re-exchanging refresh token")
		c.tokens.Invalidate()
		if err := c.tokens.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("token refresh after 401 failed: %w", err)
		}

		resp, err = c.dispatch(ctx, method, path, mediaType, payload)
		if err != nil {
			return nil, err
		}
		data, status, err = c.readResponse(resp)
		if err != nil {
			return nil, err
		}
	}

	if isSuccess(status) {
		return data, nil
	}

	apiErr := newAPIError(status, data)
	if s := resp.Header.Get("Retry-After"); s != "" {
		if secs, convErr := strconv.Atoi(s); convErr == nil && secs > 0 {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return nil, apiErr
}

// dispatch builds and sends a single authenticated request.
func (c *Client) dispatch(ctx context.Context, method, path, mediaType string, payload []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Amazon-Advertising-API-ClientId", c.clientID)
	req.Header.Set("Amazon-Advertising-API-Scope", c.profileID)
	req.Header.Set("Accept", mediaType)
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", mediaType)
	}

	if err := c.tokens.Authenticate(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// readResponse drains the body with the configured size limit and closes it.
func (c *Client) readResponse(resp *http.Response) ([]byte, int, error) {
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize+1))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > c.maxResponseSize {
		return nil, 0, fmt.Errorf("response size exceeds limit of %d bytes", c.maxResponseSize)
	}
	return data, resp.StatusCode, nil
}

// listAll runs the POST list pagination loop for path, accumulating the
// arrays under resultsKey and feeding nextToken back into the request body
// until the API stops returning one.
func (c *Client) listAll(ctx context.Context, path, mediaType, resultsKey string, body map[string]any) ([]map[string]any, error) {
	if body == nil {
		body = map[string]any{}
	}

	var results []map[string]any
	for {
		data, err := c.do(ctx, http.MethodPost, path, mediaType, body)
		if err != nil {
			return nil, err
		}

		var page map[string]any
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("failed to decode %s response: %w", resultsKey, err)
		}

		if items, ok := page[resultsKey].([]any); ok {
			for _, item := range items {
				if record, ok := item.(map[string]any); ok {
					results = append(results, record)
				}
			}
		}

		token, _ := page["nextToken"].(string)
		if token == "" {
			return results, nil
		}
		body["nextToken"] = token
	}
}

// doBatch posts records wrapped under the envelope key and parses the
// success/error arrays of the response.
func (c *Client) doBatch(ctx context.Context, method, path, mediaType, envelope string, records []map[string]any) (*BatchResult, error) {
	data, err := c.do(ctx, method, path, mediaType, map[string]any{envelope: records})
	if err != nil {
		return nil, err
	}
	return parseBatchResult(data, envelope)
}

// parseBatchResult extracts the per-record outcomes from a batch response of
// the shape {"<envelope>": {"success": [...], "error": [...]}}.
func parseBatchResult(data []byte, envelope string) (*BatchResult, error) {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", envelope, err)
	}

	result := &BatchResult{}
	outcome, ok := body[envelope].(map[string]any)
	if !ok {
		return result, nil
	}

	if items, ok := outcome["success"].([]any); ok {
		for _, item := range items {
			if record, ok := item.(map[string]any); ok {
				result.Success = append(result.Success, record)
			}
		}
	}
	if items, ok := outcome["error"].([]any); ok {
		for _, item := range items {
			if record, ok := item.(map[string]any); ok {
				result.Error = append(result.Error, record)
			}
		}
	}

	return result, nil
}

// backoff calculates exponential backoff delay.
func (c *Client) backoff(attempt int) time.Duration {
	delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
	if delay > MaxRetryDelay {
		delay = MaxRetryDelay
	}
	return delay
}

// isRetryableStatus returns true if the status code indicates a retryable
// error.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}

// isSuccess reports whether the API treats the status as success. 207 comes
// back from batch operations with per-record outcomes.
func isSuccess(status int) bool {
	return status == http.StatusOK || status == http.StatusMultiStatus
}

func (c *Client) debugf(format string, args ...any) {
	if c.debug {
		c.logger.Printf(format, args...)
	}
}

// newHTTPClient builds the default pooled HTTP client.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		MaxIdleConns:    100,
		MaxConnsPerHost: 10,
		IdleConnTimeout: 90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
