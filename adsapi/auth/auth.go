// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

// Package auth manages Login with Amazon (LWA) access tokens for the
// Advertising API. Access tokens are obtained by exchanging a long-lived
// refresh token and expire after sixty minutes; the token source re-exchanges
// lazily when a caller asks for a token that is expired or missing.
//
// LWA rotates the refresh token on every exchange. The token source keeps
// the most recent value; callers that persist credentials should read it
// back via RefreshToken after use.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultTokenURL is the LWA token endpoint for the European region.
	DefaultTokenURL = "https://api.amazon.co.uk/auth/o2/token"

	// DefaultTimeout bounds the token exchange request.
	DefaultTimeout = 30 * time.Second

	// expiryMargin treats a token as expired this long before its actual
	// expiry, so a token cannot lapse between the check and the request
	// that uses it.
	expiryMargin = 30 * time.Second
)

// Config holds the credentials for a TokenSource.
type Config struct {
	ClientID     string // Required: LWA client ID
	ClientSecret string // Required: LWA client secret
	RefreshToken string // Required: LWA refresh token
	TokenURL     string // Optional: token endpoint (default: DefaultTokenURL)
	HTTPClient   *http.Client
}

// TokenSource exchanges a refresh token for access tokens and caches the
// current one until it expires.
type TokenSource struct {
	clientID     string
	clientSecret string
	tokenURL     string
	httpClient   *http.Client

	mu           sync.RWMutex
	refreshToken string
	accessToken  string
	expiresAt    time.Time

	refreshes atomic.Int64
}

// NewTokenSource creates a token source from the given credentials. No
// network call is made until the first Token or Refresh.
func NewTokenSource(cfg Config) (*TokenSource, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("client secret is required")
	}
	if cfg.RefreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}

	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &TokenSource{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		refreshToken: cfg.RefreshToken,
		tokenURL:     cfg.TokenURL,
		httpClient:   httpClient,
	}, nil
}

// Token returns a non-expired access token, exchanging the refresh token
// first if the cached one is missing or expired.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.RLock()
	token := t.accessToken
	expired := t.isExpiredLocked()
	t.mu.RUnlock()

	if token == "" || expired {
		if err := t.Refresh(ctx); err != nil {
			return "", err
		}
		t.mu.RLock()
		token = t.accessToken
		t.mu.RUnlock()
	}

	return token, nil
}

// Authenticate sets the Authorization header on req, refreshing the access
// token first if needed.
func (t *TokenSource) Authenticate(ctx context.Context, req *http.Request) error {
	token, err := t.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh access token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// IsExpired reports whether the cached access token is missing or past its
// safety margin.
func (t *TokenSource) IsExpired() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.isExpiredLocked()
}

// isExpiredLocked checks expiration without acquiring the lock (caller must
// hold it).
func (t *TokenSource) isExpiredLocked() bool {
	if t.expiresAt.IsZero() {
		return t.accessToken == ""
	}
	return time.Now().Add(expiryMargin).After(t.expiresAt)
}

// Refresh exchanges the refresh token for a new access token. The rotated
// refresh token returned by LWA replaces the stored one.
func (t *TokenSource) Refresh(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	conf := &oauth2.Config{
		ClientID:     t.clientID,
		ClientSecret: t.clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: t.tokenURL,
			// LWA expects the client credentials in the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, t.httpClient)
	token, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: t.refreshToken}).Token()
	if err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	t.accessToken = token.AccessToken
	t.expiresAt = token.Expiry
	if token.RefreshToken != "" {
		t.refreshToken = token.RefreshToken
	}
	t.refreshes.Add(1)

	return nil
}

// Invalidate discards the cached access token so the next Token call
// performs an exchange. Used after the API rejects a request with 401.
func (t *TokenSource) Invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accessToken = ""
	t.expiresAt = time.Time{}
}

// SetToken manually sets the access token (useful for testing or external
// token management).
func (t *TokenSource) SetToken(token string, expiresAt time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.accessToken = token
	t.expiresAt = expiresAt
}

// RefreshToken returns the current refresh token, which may differ from the
// one the source was created with after a rotation.
func (t *TokenSource) RefreshToken() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.refreshToken
}

// ExpiresAt returns the expiry of the cached access token, zero if none is
// held.
func (t *TokenSource) ExpiresAt() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.expiresAt
}

// Refreshes returns the number of completed token exchanges.
func (t *TokenSource) Refreshes() int64 {
	return t.refreshes.Load()
}
