// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// SecretsManager resolves profiles from AWS Secrets Manager. Fetched
// secrets are cached with a TTL so repeated lookups, for example one per CLI
// invocation in a batch job, do not hammer the API.
type SecretsManager struct {
	client *secretsmanager.Client
	cache  map[string]*secretCacheEntry
	mu     sync.RWMutex
	ttl    time.Duration
	logger *log.Logger
}

type secretCacheEntry struct {
	value     map[string]string
	expiresAt time.Time
}

// SecretsManagerOptions holds options for creating a SecretsManager.
type SecretsManagerOptions struct {
	Region   string        // AWS region; empty uses the SDK's default chain
	CacheTTL time.Duration // default: 5 minutes
	Logger   *log.Logger
}

// NewSecretsManager creates a secrets-backed profile source using the
// default AWS credential chain.
func NewSecretsManager(ctx context.Context, opts SecretsManagerOptions) (*SecretsManager, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "[adsapi] ", log.LstdFlags)
	}

	cfgOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &SecretsManager{
		client: secretsmanager.NewFromConfig(cfg),
		cache:  make(map[string]*secretCacheEntry),
		ttl:    ttl,
		logger: logger,
	}, nil
}

// GetSecret retrieves a secret from AWS Secrets Manager. The secret value is
// expected to be a JSON object with string values; a non-JSON secret is
// returned under the single key "value".
func (s *SecretsManager) GetSecret(ctx context.Context, secretARN string) (map[string]string, error) {
	s.mu.RLock()
	entry, exists := s.cache[secretARN]
	s.mu.RUnlock()

	if exists && time.Now().Before(entry.expiresAt) {
		return entry.value, nil
	}

	s.logger.Printf("fetching secret %s from AWS Secrets Manager", maskARN(secretARN))

	result, err := s.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretARN),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get secret %s: %w", maskARN(secretARN), err)
	}
	if result.SecretString == nil {
		return nil, fmt.Errorf("secret %s has no string value", maskARN(secretARN))
	}

	var values map[string]string
	if err := json.Unmarshal([]byte(*result.SecretString), &values); err != nil {
		values = map[string]string{"value": *result.SecretString}
	}

	s.mu.Lock()
	s.cache[secretARN] = &secretCacheEntry{
		value:     values,
		expiresAt: time.Now().Add(s.ttl),
	}
	s.mu.Unlock()

	return values, nil
}

// Profile resolves a secret into a credential profile. The secret is
// expected to carry the keys client_id, client_secret, refresh_token,
// profile_id and optionally region.
func (s *SecretsManager) Profile(ctx context.Context, secretARN string) (Profile, error) {
	secret, err := s.GetSecret(ctx, secretARN)
	if err != nil {
		return Profile{}, err
	}
	return profileFromSecret(secret), nil
}

// Invalidate removes a secret from the cache, forcing the next lookup to
// fetch it again. Useful after a refresh token rotation has been stored.
func (s *SecretsManager) Invalidate(secretARN string) {
	s.mu.Lock()
	delete(s.cache, secretARN)
	s.mu.Unlock()
}

// InvalidateAll clears the entire secret cache.
func (s *SecretsManager) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string]*secretCacheEntry)
	s.mu.Unlock()
}

func profileFromSecret(secret map[string]string) Profile {
	return Profile{
		ClientID:     secret["client_id"],
		ClientSecret: secret["client_secret"],
		RefreshToken: secret["refresh_token"],
		ProfileID:    secret["profile_id"],
		Region:       secret["region"],
	}
}

// maskARN masks a secret ARN for logging (shows only the last 8 characters).
func maskARN(arn string) string {
	if len(arn) <= 12 {
		return "***"
	}
	return "..." + arn[len(arn)-8:]
}
