package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// validateCmd validates configuration without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Validate LaunchBoard configuration without starting the server.

This command parses the optional YAML file, applies LAUNCHBOARD_* environment
overrides, expands ${VAR} references and validates all fields. It's useful
for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  launchboard validate -c config.yaml
  LAUNCHBOARD_POLL_INTERVAL=5m launchboard validate`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	baseURL := cfg.API.BaseURL
	if baseURL == "" {
		baseURL = "(default)"
	}
	timezone := cfg.Timezone
	if timezone == "" {
		timezone = "(local)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:          %d\n", cfg.Port)
	fmt.Fprintf(out, "  Poll interval: %s\n", cfg.PollInterval.Duration())
	fmt.Fprintf(out, "  Timezone:      %s\n", timezone)
	fmt.Fprintf(out, "  API:           %s (timeout %s, %d headers)\n",
		baseURL, cfg.API.Timeout.Duration(), len(cfg.API.Headers))

	return nil
}
