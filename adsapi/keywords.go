// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"context"
	"net/http"
)

const mediaTypeKeyword = "application/vnd.spKeyword.v3+json"

// Keyword match types.
const (
	MatchTypeBroad  = "BROAD"
	MatchTypeExact  = "EXACT"
	MatchTypePhrase = "PHRASE"
)

// DefaultMatchTypes is the match type filter applied when a keyword filter
// names none.
var DefaultMatchTypes = []string{MatchTypeBroad, MatchTypeExact, MatchTypePhrase}

// KeywordFilter narrows ListKeywords results. Zero-value fields are left out
// of the request.
type KeywordFilter struct {
	CampaignIDs  []string
	AdGroupIDs   []string
	States       []string // default: DefaultStates
	MatchTypes   []string // default: DefaultMatchTypes
	ExtendedData bool
}

// ListKeywords returns all keywords matching the filter, following
// pagination to exhaustion. A nil filter lists every keyword in
// DefaultStates across all match types.
func (c *Client) ListKeywords(ctx context.Context, filter *KeywordFilter) ([]map[string]any, error) {
	if filter == nil {
		filter = &KeywordFilter{}
	}

	matchTypes := filter.MatchTypes
	if len(matchTypes) == 0 {
		matchTypes = DefaultMatchTypes
	}

	body := map[string]any{
		"stateFilter":     includeFilter(statesOrDefault(filter.States)),
		"matchTypeFilter": matchTypes,
	}
	if len(filter.CampaignIDs) > 0 {
		body["campaignIdFilter"] = includeFilter(filter.CampaignIDs)
	}
	if len(filter.AdGroupIDs) > 0 {
		body["adGroupIdFilter"] = includeFilter(filter.AdGroupIDs)
	}
	if filter.ExtendedData {
		body["includeExtendedDataFields"] = true
	}

	return c.listAll(ctx, "/sp/keywords/list", mediaTypeKeyword, "keywords", body)
}

// CreateKeywords creates keywords in one batch request. Each record follows
// Amazon's keyword schema, see
// https://advertising.amazon.com/API/docs/en-us/sponsored-products/3-0/openapi/prod#tag/Keywords
func (c *Client) CreateKeywords(ctx context.Context, keywords []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPost, "/sp/keywords", mediaTypeKeyword, "keywords", keywords)
}

// UpdateKeywords updates keywords in one batch request. Records carry the
// keywordId plus the fields to change.
func (c *Client) UpdateKeywords(ctx context.Context, keywords []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPut, "/sp/keywords", mediaTypeKeyword, "keywords", keywords)
}

// DeleteKeywords deletes the keywords with the given IDs.
func (c *Client) DeleteKeywords(ctx context.Context, keywordIDs []string) (*BatchResult, error) {
	body := map[string]any{
		"keywordIdFilter": includeFilter(keywordIDs),
	}
	data, err := c.do(ctx, http.MethodPost, "/sp/keywords/delete", mediaTypeKeyword, body)
	if err != nil {
		return nil, err
	}
	return parseBatchResult(data, "keywords")
}
