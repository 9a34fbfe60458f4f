package main

import (
	"github.com/spf13/cobra"

	"github.com/muw78/amazon-ads-api-connector/adsapi"
)

// campaignsCmd returns the campaigns command group.
func campaignsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaigns",
		Short: "Work with Sponsored Products campaigns",
	}
	cmd.AddCommand(campaignsListCmd())
	return cmd
}

func campaignsListCmd() *cobra.Command {
	var states []string
	var nameContains []string
	var extended bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns as JSON",
		Long: `List campaigns, following pagination until every match is collected.

Examples:
  adsctl campaigns list
  adsctl campaigns list --state ENABLED --name-contains Brand
  adsctl campaigns list --extended --debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			campaigns, err := client.ListCampaigns(cmd.Context(), &adsapi.CampaignFilter{
				States:       states,
				NameContains: nameContains,
				ExtendedData: extended,
			})
			if err != nil {
				return err
			}
			return printJSON(campaigns)
		},
	}

	cmd.Flags().StringSliceVar(&states, "state", nil, "Filter by state: ENABLED, PAUSED, ARCHIVED (default: all)")
	cmd.Flags().StringSliceVar(&nameContains, "name-contains", nil, "Filter by name substrings")
	cmd.Flags().BoolVar(&extended, "extended", false, "Include read-only extended data fields")

	return cmd
}

// adGroupsCmd returns the adgroups command group.
func adGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adgroups",
		Short: "Work with Sponsored Products ad groups",
	}
	cmd.AddCommand(adGroupsListCmd())
	return cmd
}

func adGroupsListCmd() *cobra.Command {
	var campaignIDs []string
	var states []string
	var nameContains []string
	var extended bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ad groups as JSON",
		Long: `List ad groups, optionally scoped to campaigns.

Examples:
  adsctl adgroups list
  adsctl adgroups list --campaign-id 123456789`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			adGroups, err := client.ListAdGroups(cmd.Context(), &adsapi.AdGroupFilter{
				CampaignIDs:  campaignIDs,
				States:       states,
				NameContains: nameContains,
				ExtendedData: extended,
			})
			if err != nil {
				return err
			}
			return printJSON(adGroups)
		},
	}

	cmd.Flags().StringSliceVar(&campaignIDs, "campaign-id", nil, "Filter by campaign IDs")
	cmd.Flags().StringSliceVar(&states, "state", nil, "Filter by state: ENABLED, PAUSED, ARCHIVED (default: all)")
	cmd.Flags().StringSliceVar(&nameContains, "name-contains", nil, "Filter by name substrings")
	cmd.Flags().BoolVar(&extended, "extended", false, "Include read-only extended data fields")

	return cmd
}

// productAdsCmd returns the productads command group.
func productAdsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "productads",
		Short: "Work with Sponsored Products product ads",
	}
	cmd.AddCommand(productAdsListCmd())
	return cmd
}

func productAdsListCmd() *cobra.Command {
	var campaignIDs []string
	var adGroupIDs []string
	var states []string
	var extended bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List product ads as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			ads, err := client.ListProductAds(cmd.Context(), &adsapi.ProductAdFilter{
				CampaignIDs:  campaignIDs,
				AdGroupIDs:   adGroupIDs,
				States:       states,
				ExtendedData: extended,
			})
			if err != nil {
				return err
			}
			return printJSON(ads)
		},
	}

	cmd.Flags().StringSliceVar(&campaignIDs, "campaign-id", nil, "Filter by campaign IDs")
	cmd.Flags().StringSliceVar(&adGroupIDs, "ad-group-id", nil, "Filter by ad group IDs")
	cmd.Flags().StringSliceVar(&states, "state", nil, "Filter by state: ENABLED, PAUSED, ARCHIVED (default: all)")
	cmd.Flags().BoolVar(&extended, "extended", false, "Include read-only extended data fields")

	return cmd
}

// keywordsCmd returns the keywords command group.
func keywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Work with Sponsored Products keywords",
	}
	cmd.AddCommand(keywordsListCmd())
	return cmd
}

func keywordsListCmd() *cobra.Command {
	var campaignIDs []string
	var adGroupIDs []string
	var states []string
	var matchTypes []string
	var extended bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List keywords as JSON",
		Long: `List keywords, optionally scoped by campaign, ad group or match type.

Examples:
  adsctl keywords list --ad-group-id 987654321
  adsctl keywords list --match-type EXACT,PHRASE`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			keywords, err := client.ListKeywords(cmd.Context(), &adsapi.KeywordFilter{
				CampaignIDs:  campaignIDs,
				AdGroupIDs:   adGroupIDs,
				States:       states,
				MatchTypes:   matchTypes,
				ExtendedData: extended,
			})
			if err != nil {
				return err
			}
			return printJSON(keywords)
		},
	}

	cmd.Flags().StringSliceVar(&campaignIDs, "campaign-id", nil, "Filter by campaign IDs")
	cmd.Flags().StringSliceVar(&adGroupIDs, "ad-group-id", nil, "Filter by ad group IDs")
	cmd.Flags().StringSliceVar(&states, "state", nil, "Filter by state: ENABLED, PAUSED, ARCHIVED (default: all)")
	cmd.Flags().StringSliceVar(&matchTypes, "match-type", nil, "Filter by match type: BROAD, EXACT, PHRASE (default: all)")
	cmd.Flags().BoolVar(&extended, "extended", false, "Include read-only extended data fields")

	return cmd
}

// negativeKeywordsCmd returns the negativekeywords command group.
func negativeKeywordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "negativekeywords",
		Short: "Work with Sponsored Products negative keywords",
	}
	cmd.AddCommand(negativeKeywordsListCmd())
	return cmd
}

func negativeKeywordsListCmd() *cobra.Command {
	var campaignIDs []string
	var adGroupIDs []string
	var states []string
	var extended bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List negative keywords as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			keywords, err := client.ListNegativeKeywords(cmd.Context(), &adsapi.NegativeKeywordFilter{
				CampaignIDs:  campaignIDs,
				AdGroupIDs:   adGroupIDs,
				States:       states,
				ExtendedData: extended,
			})
			if err != nil {
				return err
			}
			return printJSON(keywords)
		},
	}

	cmd.Flags().StringSliceVar(&campaignIDs, "campaign-id", nil, "Filter by campaign IDs")
	cmd.Flags().StringSliceVar(&adGroupIDs, "ad-group-id", nil, "Filter by ad group IDs")
	cmd.Flags().StringSliceVar(&states, "state", nil, "Filter by state: ENABLED, PAUSED, ARCHIVED (default: all)")
	cmd.Flags().BoolVar(&extended, "extended", false, "Include read-only extended data fields")

	return cmd
}
