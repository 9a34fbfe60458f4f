// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"context"
	"net/http"
)

const mediaTypeProductAd = "application/vnd.spProductAd.v3+json"

// ProductAdFilter narrows ListProductAds results. Zero-value fields are left
// out of the request.
type ProductAdFilter struct {
	CampaignIDs  []string
	AdGroupIDs   []string
	States       []string // default: DefaultStates
	ExtendedData bool
}

// ListProductAds returns all product ads matching the filter, following
// pagination to exhaustion. A nil filter lists every product ad in
// DefaultStates.
func (c *Client) ListProductAds(ctx context.Context, filter *ProductAdFilter) ([]map[string]any, error) {
	if filter == nil {
		filter = &ProductAdFilter{}
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

	return c.listAll(ctx, "/sp/productAds/list", mediaTypeProductAd, "productAds", body)
}

// CreateProductAds creates product ads in one batch request. Each record
// follows Amazon's product ad schema, see
// https://advertising.amazon.com/API/docs/en-us/sponsored-products/3-0/openapi/prod#tag/Product-ads
func (c *Client) CreateProductAds(ctx context.Context, productAds []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPost, "/sp/productAds", mediaTypeProductAd, "productAds", productAds)
}

// UpdateProductAds updates product ads in one batch request. Records carry
// the adId plus the fields to change.
func (c *Client) UpdateProductAds(ctx context.Context, productAds []map[string]any) (*BatchResult, error) {
	return c.doBatch(ctx, http.MethodPut, "/sp/productAds", mediaTypeProductAd, "productAds", productAds)
}

// DeleteProductAds deletes the product ads with the given ad IDs.
func (c *Client) DeleteProductAds(ctx context.Context, adIDs []string) (*BatchResult, error) {
	body := map[string]any{
		"adIdFilter": includeFilter(adIDs),
	}
	data, err := c.do(ctx, http.MethodPost, "/sp/productAds/delete", mediaTypeProductAd, body)
	if err != nil {
		return nil, err
	}
	return parseBatchResult(data, "productAds")
}
