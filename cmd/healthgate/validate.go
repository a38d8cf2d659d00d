package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"healthmate-hq/healthgate/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate the configuration file without starting the server.

Examples:
  # Validate the default config
  healthgate validate

  # Validate a specific file
  healthgate validate --config /etc/healthgate/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		fmt.Println("✓ Configuration valid")
		fmt.Printf("  listen address:  %s\n", cfg.Server.ListenAddress)
		fmt.Printf("  upstream model:  %s\n", cfg.Upstream.Model)
		fmt.Printf("  rate limit:      %d requests per %s\n", cfg.RateLimit.Limit, cfg.RateLimit.Window)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
