package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/launchboard"
	"github.com/jpalmerr/launchboard/config"
)

// checkCmd verifies the upstream API answers.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the SpaceX API is reachable",
	Long: `Fetch the next-launch document once and report whether it is valid.

Nothing is cached and no server is started. Exit code 1 means the API could
not be reached or returned an unexpected document.

Example:
  launchboard check
  LAUNCHBOARD_API__BASE_URL=http://localhost:9000/v4 launchboard check`,
	RunE: runCheck,
}

// statesCmd performs one refresh and prints every entity state.
var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Refresh once and print entity states as JSON",
	Long: `Refresh the SpaceX data once and print every entity state as JSON.

The output is the same document served by GET /api/entities. A failed
refresh exits with code 1.`,
	RunE: runStates,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(statesCmd)
}

// newBoard builds a LaunchBoard from the resolved configuration.
func newBoard(cmd *cobra.Command) (*launchboard.LaunchBoard, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := config.BuildOptions(cfg, newLogger(cfg.SlogLevel()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build options: %w", err)
	}

	lb, err := launchboard.New(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LaunchBoard: %w", err)
	}
	return lb, cfg, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	lb, cfg, err := newBoard(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.API.Timeout.Duration())
	defer cancel()

	if err := lb.Ping(ctx); err != nil {
		return fmt.Errorf("api check failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "SpaceX API is reachable")
	return nil
}

func runStates(cmd *cobra.Command, args []string) error {
	lb, _, err := newBoard(cmd)
	if err != nil {
		return err
	}

	if err := lb.Refresh(cmd.Context()); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(lb.States())
}
