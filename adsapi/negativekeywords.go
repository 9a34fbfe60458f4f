// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"context"
	"net/http"
)

const mediaTypeNegativeKeyword = "application/vnd.spNegativeKeyword.v3+json"

// NegativeKeywordFilter narrows ListNegativeKeywords results. Zero-value
// fields are left out of the request.
type NegativeKeywordFilter struct {
	CampaignIDs  []string
	AdGroupIDs   []string
	States       []string // default: DefaultStates
	ExtendedData bool
}

// ListNegativeKeywords returns all negative keywords matching the filter,
// following pagination to exhaustion. A nil filter lists every negative
// keyword in DefaultStates.
func (c *Client) ListNegativeKeywords(ctx context.Context, filter *NegativeKeywordFilter) ([]map[string]any, error) {
	if filter == nil {
		filter = &NegativeKeywordFilter{}
	}

	body := map[string]any{
		"stateFilter": includeFilter(statesOrDefault(filter.States)),
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

	return c.listAll(ctx, "/sp/negativeKeywords/list", mediaTypeNegativeKeyword, "negativeKeywords", body)
}

// CreateNegativeKeywords creates negative keywords in one batch request.
// Each record follows Amazon's negative keyword schema, see
// https://advertising.amazon.com/API/docs/en-us/sponsored-products/3-0/openapi/prod#tag/Negative-keywords
func (c *Client) CreateNegativeKeywords(ctx context.Context, negativeKeywords []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPost, "/sp/negativeKeywords", mediaTypeNegativeKeyword, "negativeKeywords", negativeKeywords)
}

// UpdateNegativeKeywords updates negative keywords in one batch request.
// Records carry the keywordId plus the fields to change.
func (c *Client) UpdateNegativeKeywords(ctx context.Context, negativeKeywords []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPut, "/sp/negativeKeywords", mediaTypeNegativeKeyword, "negativeKeywords", negativeKeywords)
}

// DeleteNegativeKeywords deletes the negative keywords with the given IDs.
// The endpoint filters by keywordIdFilter, the same key regular keyword
// deletion uses.
func (c *Client) DeleteNegativeKeywords(ctx context.Context, keywordIDs []string) (*BatchResult, error) {
	body := map[string]any{
		"keywordIdFilter": includeFilter(keywordIDs),
	}
	data, err := c.do(ctx, http.MethodPost, "/sp/negativeKeywords/delete", mediaTypeNegativeKeyword, body)
	if err != nil {
		return nil, err
	}
	return parseBatchResult(data, "negativeKeywords")
}
