// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"context"
	"net/http"
)

const mediaTypeCampaign = "application/vnd.spCampaign.v3+json"

// Entity states used by the state filters and carried in entity records.
const (
	StateEnabled  = "ENABLED"
	StatePaused   = "PAUSED"
	StateArchived = "ARCHIVED"
)

// DefaultStates is the state filter applied when a list filter names none:
// every entity that still exists.
var DefaultStates = []string{StateEnabled, StatePaused, StateArchived}

// CampaignFilter narrows ListCampaigns results. Zero-value fields are left
// out of the request.
type CampaignFilter struct {
	States       []string // default: DefaultStates
	NameContains []string // name substrings, matched BROAD_MATCH
	ExtendedData bool     // include read-only extended data fields
}

// ListCampaigns returns all Sponsored Products campaigns matching the
// filter, following pagination to exhaustion. A nil filter lists every
// campaign in DefaultStates.
func (c *Client) ListCampaigns(ctx context.Context, filter *CampaignFilter) ([]map[string]any, error) {
	if filter == nil {
		filter = &CampaignFilter{}
	}

	body := map[string]any{
		"stateFilter": includeFilter(statesOrDefault(filter.States)),
	}
	if len(filter.NameContains) > 0 {
		body["nameFilter"] = nameFilter(filter.NameContains)
	}
	if filter.ExtendedData {
		body["includeExtendedDataFields"] = true
	}

	return c.listAll(ctx, "/sp/campaigns/list", mediaTypeCampaign, "campaigns", body)
}

// CreateCampaigns creates campaigns in one batch request. Each record
// follows Amazon's campaign schema, see
// https://advertising.amazon.com/API/docs/en-us/sponsored-products/3-0/openapi/prod#tag/Campaigns
func (c *Client) CreateCampaigns(ctx context.Context, campaigns []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPost, "/sp/campaigns", mediaTypeCampaign, "campaigns", campaigns)
}

// UpdateCampaigns updates campaigns in one batch request. Records carry the
// campaignId plus the fields to change.
func (c *Client) UpdateCampaigns(ctx context.Context, campaigns []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPut, "/sp/campaigns", mediaTypeCampaign, "campaigns", campaigns)
}

// DeleteCampaigns deletes the campaigns with the given IDs.
func (c *Client) DeleteCampaigns(ctx context.Context, campaignIDs []string) (*BatchResult, error) {
	body := map[string]any{
		"campaignIdFilter": includeFilter(campaignIDs),
	}
	data, err := c.do(ctx, http.MethodPost, "/sp/campaigns/delete", mediaTypeCampaign, body)
	if err != nil {
		return nil, err
	}
	return parseBatchResult(data, "campaigns")
}

// includeFilter wraps values in the API's include-filter shape.
func includeFilter[T any](values []T) map[string]any {
	return map[string]any{"include": values}
}

// nameFilter builds the substring name filter shared by campaign and ad
// group listing.
func nameFilter(contains []string) map[string]any {
	return map[string]any{
		"queryTermMatchType": "BROAD_MATCH",
		"include":            contains,
	}
}

func statesOrDefault(states []string) []string {
	if len(states) == 0 {
		return DefaultStates
	}
	return states
}
