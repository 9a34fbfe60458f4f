// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"strconv"
)

// Environment variables recognized by FromEnv.
const (
	EnvClientID     = "AMAZON_ADS_CLIENT_ID"
	EnvClientSecret = "AMAZON_ADS_CLIENT_SECRET"
	EnvRefreshToken = "AMAZON_ADS_REFRESH_TOKEN"
	EnvProfileID    = "AMAZON_ADS_PROFILE_ID"
	EnvRegion       = "AMAZON_ADS_REGION"
	EnvDebug        = "AMAZON_ADS_DEBUG"
)

// FromEnv builds a profile from the AMAZON_ADS_* environment variables.
// Unset variables leave the matching fields empty, so the result is usually
// merged with a file profile rather than used alone.
func FromEnv() Profile {
	debug, _ := strconv.ParseBool(os.Getenv(EnvDebug))
	return Profile{
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		RefreshToken: os.Getenv(EnvRefreshToken),
		ProfileID:    os.Getenv(EnvProfileID),
		Region:       os.Getenv(EnvRegion),
		Debug:        debug,
	}
}
