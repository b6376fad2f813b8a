package config

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/jpalmerr/launchboard"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The logger is passed through unchanged; a nil logger leaves the SDK
// default in place.
func BuildOptions(cfg *Config, logger *slog.Logger) ([]launchboard.Option, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}

	opts := []launchboard.Option{
		launchboard.WithPort(cfg.Port),
		launchboard.WithPollingInterval(cfg.PollInterval.Duration()),
		launchboard.WithTimeout(cfg.API.Timeout.Duration()),
		launchboard.WithLocation(loc),
		launchboard.WithRequireInitialRefresh(cfg.RequireInitialRefresh),
	}

	if cfg.Title != "" {
		opts = append(opts, launchboard.WithTitle(cfg.Title))
	}

	if cfg.API.BaseURL != "" {
		opts = append(opts, launchboard.WithBaseURL(cfg.API.BaseURL))
	}

	if len(cfg.API.Headers) > 0 {
		opts = append(opts, launchboard.WithHeaders(mapToKeyValuePairs(cfg.API.Headers)...))
	}

	if logger != nil {
		opts = append(opts, launchboard.WithLogger(logger))
	}

	return opts, nil
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
