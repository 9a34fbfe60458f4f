// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"context"
	"net/http"
)

const mediaTypeAdGroup = "application/vnd.spAdGroup.v3+json"

// AdGroupFilter narrows ListAdGroups results. Zero-value fields are left out
// of the request.
type AdGroupFilter struct {
	CampaignIDs  []string
	States       []string // default: DefaultStates
	NameContains []string
	ExtendedData bool
}

// ListAdGroups returns all ad groups matching the filter, following
// pagination to exhaustion. A nil filter lists every ad group in
// DefaultStates across all campaigns.
func (c *Client) ListAdGroups(ctx context.Context, filter *AdGroupFilter) ([]map[string]any, error) {
	if filter == nil {
		filter = &AdGroupFilter{}
	}

	body := map[string]any{
		"stateFilter": includeFilter(statesOrDefault(filter.States)),
	}
	if len(filter.CampaignIDs) > 0 {
		body["campaignIdFilter"] = includeFilter(filter.CampaignIDs)
	}
	if len(filter.NameContains) > 0 {
		body["nameFilter"] = nameFilter(filter.NameContains)
	}
	if filter.ExtendedData {
		body["includeExtendedDataFields"] = true
	}

	return c.listAll(ctx, "/sp/adGroups/list", mediaTypeAdGroup, "adGroups", body)
}

// CreateAdGroups creates ad groups in one batch request. Each record follows
// Amazon's ad group schema, see
// https://advertising.amazon.com/API/docs/en-us/sponsored-products/3-0/openapi/prod#tag/Ad-groups
func (c *Client) CreateAdGroups(ctx context.Context, adGroups []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPost, "/sp/adGroups", mediaTypeAdGroup, "adGroups", adGroups)
}

// UpdateAdGroups updates ad groups in one batch request. Records carry the
// adGroupId plus the fields to change.
func (c *Client) UpdateAdGroups(ctx context.Context, adGroups []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPut, "/sp/adGroups", mediaTypeAdGroup, "adGroups", adGroups)
}

// DeleteAdGroups deletes the ad groups with the given IDs.
func (c *Client) DeleteAdGroups(ctx context.Context, adGroupIDs []string) (*BatchResult, error) {
	body := map[string]any{
		"adGroupIdFilter": includeFilter(adGroupIDs),
	}
	data, err := c.do(ctx, http.MethodPost, "/sp/adGroups/delete", mediaTypeAdGroup, body)
	if err != nil {
		return nil, err
	}
	return parseBatchResult(data, "adGroups")
}
