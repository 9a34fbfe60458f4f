// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

// Package reports defines request configurations for the Sponsored Products
// reporting endpoint.
//
// Each constructor returns a ready-to-submit configuration for one of
// Amazon's report types, preloaded with the full column set the type
// supports. Fields are plain values; callers may adjust them before handing
// the Report to the client. See
// https://advertising.amazon.com/API/docs/en-us/guides/reporting/v3/report-types
// for the column semantics.
package reports

import "slices"

// Report type identifiers.
const (
	TypeCampaigns         = "spCampaigns"
	TypeTargeting         = "spTargeting"
	TypeSearchTerm        = "spSearchTerm"
	TypeAdvertisedProduct = "spAdvertisedProduct"
	TypePurchasedProduct  = "spPurchasedProduct"
)

// Grouping dimensions accepted by the campaigns report.
const (
	GroupByCampaign = "campaign"
	GroupByAdGroup  = "adGroup"
)

const (
	// TimeUnitSummary aggregates the whole date range into one row per
	// entity. The alternative, "DAILY", adds a date column.
	TimeUnitSummary = "SUMMARY"
	// FormatGzipJSON is the only format the download helper understands.
	FormatGzipJSON = "GZIP_JSON"
)

// Report describes an asynchronous report request: the date range, the
// report type and the columns to include. Dates are YYYY-MM-DD strings and
// pass through to the API unparsed.
type Report struct {
	Name      string // optional label; submitted as "Report" when empty
	StartDate string
	EndDate   string
	TypeID    string
	GroupBy   []string
	Columns   []string
	TimeUnit  string // defaults to TimeUnitSummary at submission
	Format    string // defaults to FormatGzipJSON at submission
}

// NewCampaigns returns a campaign performance report configuration. Without
// arguments it groups by campaign; grouping by campaign or adGroup adds the
// matching identity columns.
func NewCampaigns(startDate, endDate string, groupBy ...string) Report {
	if len(groupBy) == 0 {
		groupBy = []string{GroupByCampaign}
	}

	columns := slices.Clone(campaignBaseColumns)
	if slices.Contains(groupBy, GroupByCampaign) {
		columns = append(columns, campaignIdentityColumns...)
	}
	if slices.Contains(groupBy, GroupByAdGroup) {
		columns = append(columns, adGroupIdentityColumns...)
	}

	return Report{
		StartDate: startDate,
		EndDate:   endDate,
		TypeID:    TypeCampaigns,
		GroupBy:   slices.Clone(groupBy),
		Columns:   columns,
		TimeUnit:  TimeUnitSummary,
		Format:    FormatGzipJSON,
	}
}

// NewTargeting returns a targeting report configuration: performance per
// keyword or targeting expression.
func NewTargeting(startDate, endDate string, groupBy ...string) Report {
	if len(groupBy) == 0 {
		groupBy = []string{"targeting"}
	}
	return Report{
		StartDate: startDate,
		EndDate:   endDate,
		TypeID:    TypeTargeting,
		GroupBy:   slices.Clone(groupBy),
		Columns:   slices.Clone(targetingColumns),
		TimeUnit:  TimeUnitSummary,
		Format:    FormatGzipJSON,
	}
}

// NewSearchTerm returns a search term report configuration: performance per
// customer search query.
func NewSearchTerm(startDate, endDate string, groupBy ...string) Report {
	if len(groupBy) == 0 {
		groupBy = []string{"searchTerm"}
	}
	return Report{
		StartDate: startDate,
		EndDate:   endDate,
		TypeID:    TypeSearchTerm,
		GroupBy:   slices.Clone(groupBy),
		Columns:   slices.Clone(searchTermColumns),
		TimeUnit:  TimeUnitSummary,
		Format:    FormatGzipJSON,
	}
}

// NewAdvertisedProduct returns an advertised product report configuration:
// performance per advertised ASIN/SKU.
func NewAdvertisedProduct(startDate, endDate string, groupBy ...string) Report {
	if len(groupBy) == 0 {
		groupBy = []string{"advertiser"}
	}
	return Report{
		StartDate: startDate,
		EndDate:   endDate,
		TypeID:    TypeAdvertisedProduct,
		GroupBy:   slices.Clone(groupBy),
		Columns:   slices.Clone(advertisedProductColumns),
		TimeUnit:  TimeUnitSummary,
		Format:    FormatGzipJSON,
	}
}

// NewPurchasedProduct returns a purchased product report configuration:
// what customers actually bought after clicking, including other-SKU sales.
func NewPurchasedProduct(startDate, endDate string, groupBy ...string) Report {
	if len(groupBy) == 0 {
		groupBy = []string{"asin"}
	}
	return Report{
		StartDate: startDate,
		EndDate:   endDate,
		TypeID:    TypePurchasedProduct,
		GroupBy:   slices.Clone(groupBy),
		Columns:   slices.Clone(purchasedProductColumns),
		TimeUnit:  TimeUnitSummary,
		Format:    FormatGzipJSON,
	}
}

var campaignBaseColumns = []string{
	"impressions",
	"clicks",
	"cost",
	"purchases1d",
	"purchases7d",
	"purchases14d",
	"purchases30d",
	"purchasesSameSku1d",
	"purchasesSameSku7d",
	"purchasesSameSku14d",
	"purchasesSameSku30d",
	"unitsSoldClicks1d",
	"unitsSoldClicks7d",
	"unitsSoldClicks14d",
	"unitsSoldClicks30d",
	"sales1d",
	"sales7d",
	"sales14d",
	"sales30d",
	"attributedSalesSameSku1d",
	"attributedSalesSameSku7d",
	"attributedSalesSameSku14d",
	"attributedSalesSameSku30d",
	"unitsSoldSameSku1d",
	"unitsSoldSameSku7d",
	"unitsSoldSameSku14d",
	"unitsSoldSameSku30d",
	"kindleEditionNormalizedPagesRead14d",
	"kindleEditionNormalizedPagesRoyalties14d",
	"startDate",
	"endDate",
	"campaignBiddingStrategy",
	"costPerClick",
	"clickThroughRate",
	"spend",
}

var campaignIdentityColumns = []string{
	"campaignName",
	"campaignId",
	"campaignStatus",
	"campaignBudgetAmount",
	"campaignBudgetType",
	"campaignRuleBasedBudgetAmount",
	"campaignApplicableBudgetRuleId",
	"campaignApplicableBudgetRuleName",
	"campaignBudgetCurrencyCode",
	"topOfSearchImpressionShare",
}

var adGroupIdentityColumns = []string{
	"adGroupName",
	"adGroupId",
	"adStatus",
}

var targetingColumns = []string{
	"impressions",
	"clicks",
	"costPerClick",
	"clickThroughRate",
	"cost",
	"purchases1d",
	"purchases7d",
	"purchases14d",
	"purchases30d",
	"purchasesSameSku1d",
	"purchasesSameSku7d",
	"purchasesSameSku14d",
	"purchasesSameSku30d",
	"unitsSoldClicks1d",
	"unitsSoldClicks7d",
	"unitsSoldClicks14d",
	"unitsSoldClicks30d",
	"sales1d",
	"sales7d",
	"sales14d",
	"sales30d",
	"attributedSalesSameSku1d",
	"attributedSalesSameSku7d",
	"attributedSalesSameSku14d",
	"attributedSalesSameSku30d",
	"unitsSoldSameSku1d",
	"unitsSoldSameSku7d",
	"unitsSoldSameSku14d",
	"unitsSoldSameSku30d",
	"kindleEditionNormalizedPagesRead14d",
	"kindleEditionNormalizedPagesRoyalties14d",
	"salesOtherSku7d",
	"unitsSoldOtherSku7d",
	"acosClicks7d",
	"acosClicks14d",
	"roasClicks7d",
	"roasClicks14d",
	"keywordId",
	"keyword",
	"campaignBudgetCurrencyCode",
	"startDate",
	"endDate",
	"portfolioId",
	"campaignName",
	"campaignId",
	"campaignBudgetType",
	"campaignBudgetAmount",
	"campaignStatus",
	"keywordBid",
	"adGroupName",
	"adGroupId",
	"keywordType",
	"matchType",
	"targeting",
	"topOfSearchImpressionShare",
	"adKeywordStatus",
}

var searchTermColumns = []string{
	"impressions",
	"clicks",
	"costPerClick",
	"clickThroughRate",
	"cost",
	"purchases1d",
	"purchases7d",
	"purchases14d",
	"purchases30d",
	"purchasesSameSku1d",
	"purchasesSameSku7d",
	"purchasesSameSku14d",
	"purchasesSameSku30d",
	"unitsSoldClicks1d",
	"unitsSoldClicks7d",
	"unitsSoldClicks14d",
	"unitsSoldClicks30d",
	"sales1d",
	"sales7d",
	"sales14d",
	"sales30d",
	"attributedSalesSameSku1d",
	"attributedSalesSameSku7d",
	"attributedSalesSameSku14d",
	"attributedSalesSameSku30d",
	"unitsSoldSameSku1d",
	"unitsSoldSameSku7d",
	"unitsSoldSameSku14d",
	"unitsSoldSameSku30d",
	"kindleEditionNormalizedPagesRead14d",
	"kindleEditionNormalizedPagesRoyalties14d",
	"salesOtherSku7d",
	"unitsSoldOtherSku7d",
	"acosClicks7d",
	"acosClicks14d",
	"roasClicks7d",
	"roasClicks14d",
	"keywordId",
	"keyword",
	"campaignBudgetCurrencyCode",
	"startDate",
	"endDate",
	"portfolioId",
	"searchTerm",
	"campaignName",
	"campaignId",
	"campaignBudgetType",
	"campaignBudgetAmount",
	"campaignStatus",
	"keywordBid",
	"adGroupName",
	"adGroupId",
	"keywordType",
	"matchType",
	"targeting",
	"adKeywordStatus",
}

var advertisedProductColumns = []string{
	"startDate",
	"endDate",
	"campaignName",
	"campaignId",
	"adGroupName",
	"adGroupId",
	"adId",
	"portfolioId",
	"impressions",
	"clicks",
	"costPerClick",
	"clickThroughRate",
	"cost",
	"spend",
	"campaignBudgetCurrencyCode",
	"campaignBudgetAmount",
	"campaignBudgetType",
	"campaignStatus",
	"advertisedAsin",
	"advertisedSku",
	"purchases1d",
	"purchases7d",
	"purchases14d",
	"purchases30d",
	"purchasesSameSku1d",
	"purchasesSameSku7d",
	"purchasesSameSku14d",
	"purchasesSameSku30d",
	"unitsSoldClicks1d",
	"unitsSoldClicks7d",
	"unitsSoldClicks14d",
	"unitsSoldClicks30d",
	"sales1d",
	"sales7d",
	"sales14d",
	"sales30d",
	"attributedSalesSameSku1d",
	"attributedSalesSameSku7d",
	"attributedSalesSameSku14d",
	"attributedSalesSameSku30d",
	"salesOtherSku7d",
	"unitsSoldSameSku1d",
	"unitsSoldSameSku7d",
	"unitsSoldSameSku14d",
	"unitsSoldSameSku30d",
	"unitsSoldOtherSku7d",
	"kindleEditionNormalizedPagesRead14d",
	"kindleEditionNormalizedPagesRoyalties14d",
	"acosClicks7d",
	"acosClicks14d",
	"roasClicks7d",
	"roasClicks14d",
}

var purchasedProductColumns = []string{
	"startDate",
	"endDate",
	"portfolioId",
	"campaignName",
	"campaignId",
	"adGroupName",
	"adGroupId",
	"keywordId",
	"keyword",
	"keywordType",
	"advertisedAsin",
	"purchasedAsin",
	"advertisedSku",
	"campaignBudgetCurrencyCode",
	"matchType",
	"unitsSoldClicks1d",
	"unitsSoldClicks7d",
	"unitsSoldClicks14d",
	"unitsSoldClicks30d",
	"sales1d",
	"sales7d",
	"sales14d",
	"sales30d",
	"purchases1d",
	"purchases7d",
	"purchases14d",
	"purchases30d",
	"unitsSoldOtherSku1d",
	"unitsSoldOtherSku7d",
	"unitsSoldOtherSku14d",
	"unitsSoldOtherSku30d",
	"salesOtherSku1d",
	"salesOtherSku7d",
	"salesOtherSku14d",
	"salesOtherSku30d",
	"purchasesOtherSku1d",
	"purchasesOtherSku7d",
	"purchasesOtherSku14d",
	"purchasesOtherSku30d",
	"kindleEditionNormalizedPagesRead14d",
	"kindleEditionNormalizedPagesRoyalties14d",
}
