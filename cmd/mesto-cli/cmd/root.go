package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nfrund/mesto/internal/api"
	"github.com/nfrund/mesto/internal/config"
)

var (
	apiURL       string
	apiToken     string
	apiTimeout   time.Duration
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "mesto-cli",
	Short: "Mesto command-line client",
	Long: `mesto-cli talks to any Mesto-compatible REST backend.

Available commands:
  cards     List the cards of the gallery
  stats     Show gallery statistics
  version   Print the version

Connection settings default to MESTO_API_URL, MESTO_API_TOKEN and
MESTO_API_TIMEOUT (a .env file is read when present).

Use "mesto-cli [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return fillFromConfig()
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "base URL of the Mesto API")
	rootCmd.PersistentFlags().StringVar(&apiToken, "token", "", "authorization token")
	rootCmd.PersistentFlags().DurationVar(&apiTimeout, "timeout", 0, "request timeout")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json)")
}

// fillFromConfig fills the connection flags that were not given.
func fillFromConfig() error {
	if outputFormat != "table" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q", outputFormat)
	}
	if apiURL != "" && apiToken != "" && apiTimeout > 0 {
		return nil
	}
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if apiURL == "" {
		apiURL = cfg.GetAPIBaseURL()
	}
	if apiToken == "" {
		apiToken = cfg.GetAPIToken()
	}
	if apiTimeout <= 0 {
		apiTimeout = cfg.GetAPITimeout()
	}
	if apiURL == "" {
		return fmt.Errorf("no API URL: pass --api-url or set MESTO_API_URL")
	}
	return nil
}

func newClient() (*api.HTTPClient, error) {
	return api.NewHTTPClient(apiURL, apiToken, api.WithTimeout(apiTimeout))
}
