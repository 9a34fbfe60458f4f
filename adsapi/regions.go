// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import "fmt"

// Region identifies one of the three Amazon Advertising API host clusters.
// Each region serves the marketplaces of its geography and has its own
// Login with Amazon token endpoint.
type Region string

const (
	// RegionNA serves the North American marketplaces (US, CA, MX, BR).
	RegionNA Region = "NA"
	// RegionEU serves Europe, the Middle East and India.
	RegionEU Region = "EU"
	// RegionFE serves the Far East marketplaces (JP, AU, SG).
	RegionFE Region = "FE"
)

// Endpoint returns the Advertising API base URL for the region.
func (r Region) Endpoint() string {
	switch r {
	case RegionNA:
		return "https://advertising-api.amazon.com"
	case RegionEU:
		return "https://advertising-api-eu.amazon.com"
	case RegionFE:
		return "https://advertising-api-fe.amazon.com"
	default:
		return ""
	}
}

// TokenURL returns the Login with Amazon token endpoint for the region.
func (r Region) TokenURL() string {
	switch r {
	case RegionNA:
		return "https://api.amazon.com/auth/o2/token"
	case RegionEU:
		return "https://api.amazon.co.uk/auth/o2/token"
	case RegionFE:
		return "https://api.amazon.co.jp/auth/o2/token"
	default:
		return ""
	}
}

// AuthorizeURL returns the Login with Amazon consent page for the region,
// used by the authorization-code grant.
func (r Region) AuthorizeURL() string {
	switch r {
	case RegionNA:
		return "https://www.amazon.com/ap/oa"
	case RegionEU:
		return "https://eu.account.amazon.com/ap/oa"
	case RegionFE:
		return "https://apac.account.amazon.com/ap/oa"
	default:
		return ""
	}
}

// Valid reports whether r names a known region.
func (r Region) Valid() bool {
	return r.Endpoint() != ""
}

// ParseRegion converts a string such as "eu" into a Region.
func ParseRegion(s string) (Region, error) {
	switch s {
	case "NA", "na":
		return RegionNA, nil
	case "EU", "eu":
		return RegionEU, nil
	case "FE", "fe":
		return RegionFE, nil
	default:
		return "", fmt.Errorf("unknown region %q (expected NA, EU or FE)", s)
	}
}
