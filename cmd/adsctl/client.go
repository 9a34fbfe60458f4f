package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muw78/amazon-ads-api-connector/adsapi"
	"github.com/muw78/amazon-ads-api-connector/adsapi/config"
)

// resolveProfile builds the credential profile for a command: explicit flags
// win, then the config file profile, then AMAZON_ADS_* environment variables.
func resolveProfile(cmd *cobra.Command) (config.Profile, error) {
	configPath, _ := cmd.Flags().GetString("config")
	profileName, _ := cmd.Flags().GetString("profile")
	region, _ := cmd.Flags().GetString("region")
	debug, _ := cmd.Flags().GetBool("debug")

	if configPath == "" {
		configPath = os.Getenv("AMAZON_ADS_CONFIG")
	}

	profile := config.Profile{Region: region, Debug: debug}

	if configPath != "" {
		file, err := config.Load(configPath)
		if err != nil {
			return config.Profile{}, err
		}
		fromFile, err := file.Profile(profileName)
		if err != nil {
			return config.Profile{}, err
		}
		profile = profile.Merge(fromFile)
	} else if profileName != "" {
		return config.Profile{}, fmt.Errorf("--profile requires a config file (--config or AMAZON_ADS_CONFIG)")
	}

	return profile.Merge(config.FromEnv()), nil
}

// newClient constructs an API client from the resolved profile.
func newClient(cmd *cobra.Command) (*adsapi.Client, error) {
	profile, err := resolveProfile(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := profile.ClientConfig()
	if err != nil {
		return nil, err
	}
	return adsapi.NewClient(cmd.Context(), cfg)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
