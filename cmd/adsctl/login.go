package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muw78/amazon-ads-api-connector/adsapi"
	"github.com/muw78/amazon-ads-api-connector/adsapi/config"
	"github.com/muw78/amazon-ads-api-connector/cmd/adsctl/internal/login"
)

// lwaScope is the Login with Amazon scope for campaign management access.
const lwaScope = "advertising::campaign_management"

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// authCmd returns the auth command group.
func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Obtain Login with Amazon tokens",
	}
	cmd.AddCommand(authLoginCmd())
	return cmd
}

func authLoginCmd() *cobra.Command {
	var clientID string
	var port int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Run the Login with Amazon authorization-code flow",
		Long: `Obtain a refresh token by signing in on Amazon's consent page. The
redirect lands on a localhost callback, the authorization code is exchanged,
and the refresh token is printed for use in a config file or the
AMAZON_ADS_REFRESH_TOKEN variable.

The callback URL (http://localhost:<port>/callback) must be registered as an
allowed return URL on the LWA security profile.

Examples:
  adsctl auth login --client-id amzn1.application-oa2-client.abc123
  AMAZON_ADS_CLIENT_SECRET=... adsctl auth login --client-id ... --port 9090 --region NA`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID == "" {
				clientID = os.Getenv(config.EnvClientID)
			}
			if clientID == "" {
				return fmt.Errorf("--client-id or %s is required", config.EnvClientID)
			}

			secret := os.Getenv(config.EnvClientSecret)
			if secret == "" {
				var err error
				secret, err = promptSecret("Enter client secret: ")
				if err != nil {
					return err
				}
			}
			if secret == "" {
				return fmt.Errorf("client secret is required")
			}

			region, err := loginRegion(cmd)
			if err != nil {
				return err
			}

			flow, err := login.New(login.Options{
				ClientID:     clientID,
				ClientSecret: secret,
				AuthorizeURL: region.AuthorizeURL(),
				TokenURL:     region.TokenURL(),
				Scopes:       []string{lwaScope},
				Port:         port,
			})
			if err != nil {
				return err
			}

			fmt.Println("Open this URL in your browser and sign in:")
			fmt.Println()
			fmt.Println("  " + flow.AuthURL())
			fmt.Println()
			fmt.Printf("Waiting for the callback on %s ...\n", flow.RedirectURL())

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			token, err := flow.Wait(ctx)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			fmt.Println("\nLogin complete.")
			fmt.Printf("\nRefresh token:\n  %s\n", token.RefreshToken)
			fmt.Printf("\nStore it in your environment:\n  export %s=%q\n", config.EnvRefreshToken, token.RefreshToken)
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "LWA client ID (default: $AMAZON_ADS_CLIENT_ID)")
	cmd.Flags().IntVar(&port, "port", 9090, "Localhost port for the OAuth callback")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for the browser sign-in")

	return cmd
}

// loginRegion resolves the region for the login endpoints: --region flag,
// then AMAZON_ADS_REGION, then EU.
func loginRegion(cmd *cobra.Command) (adsapi.Region, error) {
	name, _ := cmd.Flags().GetString("region")
	if name == "" {
		name = os.Getenv(config.EnvRegion)
	}
	if name == "" {
		return adsapi.RegionEU, nil
	}
	return adsapi.ParseRegion(name)
}

// promptSecret reads a secret from the terminal without echo.
func promptSecret(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
