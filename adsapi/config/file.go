// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

// Package config resolves Amazon Ads API credentials and client settings
// from YAML files, environment variables or AWS Secrets Manager.
//
// A config file holds named profiles, each a complete credential set plus
// optional client tuning. Values may reference environment variables with
// ${VAR_NAME} or ${VAR_NAME:-default} syntax, so secrets can stay out of
// the file itself.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/muw78/amazon-ads-api-connector/adsapi"
)

// File represents the root structure of a configuration file.
type File struct {
	Version        string             `yaml:"version"`
	DefaultProfile string             `yaml:"default_profile,omitempty"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

// Profile is one named credential set in a configuration file.
type Profile struct {
	ClientID     string  `yaml:"client_id"`
	ClientSecret string  `yaml:"client_secret"`
	RefreshToken string  `yaml:"refresh_token"`
	ProfileID    string  `yaml:"profile_id"`
	Region       string  `yaml:"region,omitempty"`
	TimeoutMs    int     `yaml:"timeout_ms,omitempty"`
	MaxRetries   int     `yaml:"max_retries,omitempty"`
	RateLimit    float64 `yaml:"rate_limit,omitempty"`
	Debug        bool    `yaml:"debug,omitempty"`
}

// Load reads and parses a configuration file, expanding environment
// variable references in the raw content before parsing.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var file File
	if err := yaml.Unmarshal([]byte(expanded), &file); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// Validate checks the structure of a loaded configuration file.
func (f *File) Validate() error {
	if f.Version == "" {
		return fmt.Errorf("config file must specify a version")
	}
	if len(f.Profiles) == 0 {
		return fmt.Errorf("config file defines no profiles")
	}
	if f.DefaultProfile != "" {
		if _, ok := f.Profiles[f.DefaultProfile]; !ok {
			return fmt.Errorf("default_profile %q is not defined", f.DefaultProfile)
		}
	}
	return nil
}

// Profile returns the named profile. An empty name falls back to
// default_profile, or to the only profile when the file defines exactly one.
func (f *File) Profile(name string) (Profile, error) {
	if name == "" {
		name = f.DefaultProfile
	}
	if name == "" {
		if len(f.Profiles) == 1 {
			for _, p := range f.Profiles {
				return p, nil
			}
		}
		return Profile{}, fmt.Errorf("no profile selected and no default_profile set")
	}

	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("profile %q is not defined", name)
	}
	return p, nil
}

// ClientConfig converts the profile into a client configuration. The region
// is parsed case-insensitively; unset tuning fields keep the client's
// defaults.
func (p Profile) ClientConfig() (adsapi.Config, error) {
	cfg := adsapi.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RefreshToken: p.RefreshToken,
		ProfileID:    p.ProfileID,
		MaxRetries:   p.MaxRetries,
		RateLimit:    p.RateLimit,
		Debug:        p.Debug,
	}

	if p.Region != "" {
		region, err := adsapi.ParseRegion(p.Region)
		if err != nil {
			return adsapi.Config{}, err
		}
		cfg.Region = region
	}
	if p.TimeoutMs > 0 {
		cfg.Timeout = time.Duration(p.TimeoutMs) * time.Millisecond
	}
	return cfg, nil
}

// Merge fills the profile's empty fields from fallback and returns the
// result. Set fields win, so callers can layer flag, file and environment
// sources in precedence order.
func (p Profile) Merge(fallback Profile) Profile {
	if p.ClientID == "" {
		p.ClientID = fallback.ClientID
	}
	if p.ClientSecret == "" {
		p.ClientSecret = fallback.ClientSecret
	}
	if p.RefreshToken == "" {
		p.RefreshToken = fallback.RefreshToken
	}
	if p.ProfileID == "" {
		p.ProfileID = fallback.ProfileID
	}
	if p.Region == "" {
		p.Region = fallback.Region
	}
	if p.TimeoutMs == 0 {
		p.TimeoutMs = fallback.TimeoutMs
	}
	if p.MaxRetries == 0 {
		p.MaxRetries = fallback.MaxRetries
	}
	if p.RateLimit == 0 {
		p.RateLimit = fallback.RateLimit
	}
	p.Debug = p.Debug || fallback.Debug
	return p
}

// envVarRegex matches ${VAR_NAME} or $VAR_NAME patterns
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars expands environment variable references in the string.
// Supports both ${VAR_NAME} and ${VAR_NAME:-default} syntax; undefined
// variables without a default become empty strings.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		defaultVal := ""
		if idx := strings.Index(varName, ":-"); idx != -1 {
			defaultVal = varName[idx+2:]
			varName = varName[:idx]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultVal
	})
}

// Example generates an example configuration file.
func Example() string {
	return `# Amazon Ads API connector configuration
# Environment variables can be referenced using ${VAR_NAME} or ${VAR_NAME:-default} syntax

version: "1.0"

default_profile: production

profiles:
  production:
    client_id: ${AMAZON_ADS_CLIENT_ID}
    client_secret: ${AMAZON_ADS_CLIENT_SECRET}
    refresh_token: ${AMAZON_ADS_REFRESH_TOKEN}
    profile_id: ${AMAZON_ADS_PROFILE_ID}
    region: ${AMAZON_ADS_REGION:-EU}
    timeout_ms: 30000
    max_retries: 3

  # Secondary marketplace profile example
  us_marketplace:
    client_id: ${AMAZON_ADS_CLIENT_ID}
    client_secret: ${AMAZON_ADS_CLIENT_SECRET}
    refresh_token: ${AMAZON_ADS_US_REFRESH_TOKEN}
    profile_id: ${AMAZON_ADS_US_PROFILE_ID}
    region: NA
    rate_limit: 2
    debug: false
`
}
