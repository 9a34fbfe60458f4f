// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	mediaTypeKeywordRecommendation = "application/vnd.spkeywordsrecommendation.v4+json"
	mediaTypeBidRecommendation     = "application/vnd.spthemebasedbidrecommendation.v4+json"
)

// DefaultTargetingExpressions asks for bid recommendations across the four
// auto-targeting match groups.
var DefaultTargetingExpressions = []map[string]any{
	{"type": "CLOSE_MATCH"},
	{"type": "LOOSE_MATCH"},
	{"type": "SUBSTITUTES"},
	{"type": "COMPLEMENTS"},
}

// KeywordRecommendations returns ranked keyword suggestions for an ad group.
// targets describe the products to recommend keywords for, see
// https://advertising.amazon.com/API/docs/en-us/sponsored-products/3-0/openapi/prod#tag/Keyword-Recommendations
func (c *Client) KeywordRecommendations(ctx context.Context, campaignID, adGroupID string, targets []map[string]any) (map[string]any, error) {
	body := map[string]any{
		"recommendationType": "KEYWORDS_FOR_ADGROUP",
		"campaignId":         campaignID,
		"adGroupId":          adGroupID,
		"targets":            targets,
		// 0 lifts the cap and returns the full ranked list.
		"maxRecommendations": 0,
	}

	data, err := c.do(ctx, http.MethodPost, "/sp/targets/keywords/recommendations", mediaTypeKeywordRecommendation, body)
	if err != nil {
		return nil, err
	}
	return decodeObject(data, "keyword recommendation")
}

// BidRecommendations returns theme-based bid suggestions for ad groups.
// Keyword, auto and product targets are supported; nil expressions default
// to the auto-targeting set (DefaultTargetingExpressions). See
// https://advertising.amazon.com/API/docs/en-us/sponsored-products/3-0/openapi/prod#tag/Theme-based-bid-recommendations
func (c *Client) BidRecommendations(ctx context.Context, campaignID string, adGroupIDs []string, expressions []map[string]any) (map[string]any, error) {
	if len(expressions) == 0 {
		expressions = DefaultTargetingExpressions
	}

	// The endpoint takes the ad group IDs as an array under the singular
	// adGroupId key.
	body := map[string]any{
		"recommendationType":   "BIDS_FOR_EXISTING_AD_GROUP",
		"campaignId":           campaignID,
		"adGroupId":            adGroupIDs,
		"targetingExpressions": expressions,
	}

	data, err := c.do(ctx, http.MethodPost, "/sp/targets/bid/recommendations", mediaTypeBidRecommendation, body)
	if err != nil {
		return nil, err
	}
	return decodeObject(data, "bid recommendation")
}

// decodeObject decodes a JSON object response into a map.
func decodeObject(data []byte, what string) (map[string]any, error) {
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", what, err)
	}
	return result, nil
}
