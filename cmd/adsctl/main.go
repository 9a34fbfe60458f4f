// Package main implements the adsctl CLI for the Amazon Ads API.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	// A .env file is optional; nothing to do when none exists.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "adsctl",
		Short: "Amazon Ads API command-line tool",
		Long: `adsctl works with Amazon's Sponsored Products API: listing campaign
structures, running reports and obtaining Login with Amazon tokens.

Credentials are resolved from flags, then the config file profile, then
AMAZON_ADS_* environment variables (a .env file is loaded when present).`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (default: $AMAZON_ADS_CONFIG)")
	rootCmd.PersistentFlags().StringP("profile", "p", "", "Profile name in the config file")
	rootCmd.PersistentFlags().String("region", "", "API region: NA, EU or FE")
	rootCmd.PersistentFlags().Bool("debug", false, "Log requests and token refreshes")

	rootCmd.AddCommand(campaignsCmd())
	rootCmd.AddCommand(adGroupsCmd())
	rootCmd.AddCommand(productAdsCmd())
	rootCmd.AddCommand(keywordsCmd())
	rootCmd.AddCommand(negativeKeywordsCmd())
	rootCmd.AddCommand(reportsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(authCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
