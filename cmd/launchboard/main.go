// Package main is the entry point for the launchboard CLI.
//
// LaunchBoard can be run either as a library (SDK) or as a standalone binary
// with optional YAML configuration. This CLI provides the standalone binary.
//
// Usage:
//
//	launchboard serve -c config.yaml    # Start the dashboard
//	launchboard validate -c config.yaml # Validate configuration
//	launchboard check                   # Check the SpaceX API is reachable
//	launchboard states                  # Refresh once and print entity states
//	launchboard version                 # Show version info
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/launchboard/config"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "launchboard",
	Short: "A live dashboard of SpaceX launches and Starman",
	Long: `LaunchBoard is a small, real-time dashboard of SpaceX launch and
Starman roadster sensors.

It polls the public SpaceX API at a fixed interval and exposes binary, text
and numeric sensors over a JSON API, Server-Sent Events, WebSocket and a
web UI.

Quick start:
  1. Run: launchboard serve
  2. Open http://localhost:8080 in your browser

Optional config file (launchboard.yaml):
  port: 8080
  poll_interval: 2m
  timezone: Europe/London
  api:
    timeout: 10s

Every setting can also come from LAUNCHBOARD_* environment variables,
e.g. LAUNCHBOARD_PORT=9090 or LAUNCHBOARD_API__BASE_URL=http://localhost:9000/v4.`,
	// No Run/RunE means this just shows help when called without subcommands
	SilenceUsage: true,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this launchboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "launchboard %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "path to config file (optional)")
	rootCmd.PersistentFlags().String("env-file", "", "dotenv file loaded into the environment before the config")

	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration for a command: the dotenv file first,
// then the YAML file if one was given, then LAUNCHBOARD_* overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		// existing environment variables win over the file
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return config.Parse(nil)
	}
	return config.Load(configFile)
}

// newLogger creates a JSON logger for CLI use.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
