package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muw78/amazon-ads-api-connector/adsapi/config"
)

// configCmd returns the config command group.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Work with adsctl configuration files",
	}
	cmd.AddCommand(configExampleCmd())
	return cmd
}

func configExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Print an example configuration file",
		Long: `Print an example YAML configuration file to stdout.

Examples:
  adsctl config example > ~/.config/adsctl/config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(config.Example())
			return nil
		},
	}
}
