package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

// EnvPrefix is the prefix of environment variables that override file settings.
const EnvPrefix = "LAUNCHBOARD_"

// ApplyEnv overlays LAUNCHBOARD_* environment variables onto cfg.
//
// Names are lowercased after the prefix is stripped and a double underscore
// separates sections, so LAUNCHBOARD_API__TIMEOUT sets api.timeout.
// Headers cannot be set from the environment.
func ApplyEnv(cfg *Config) error {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}

	if k.Exists("title") {
		cfg.Title = k.String("title")
	}
	if k.Exists("timezone") {
		cfg.Timezone = k.String("timezone")
	}
	if k.Exists("log_level") {
		cfg.LogLevel = k.String("log_level")
	}
	if k.Exists("api.base_url") {
		cfg.API.BaseURL = k.String("api.base_url")
	}

	if k.Exists("port") {
		port, err := strconv.Atoi(k.String("port"))
		if err != nil {
			return fmt.Errorf("%sPORT: invalid port %q", EnvPrefix, k.String("port"))
		}
		cfg.Port = port
	}

	if k.Exists("require_initial_refresh") {
		v, err := strconv.ParseBool(k.String("require_initial_refresh"))
		if err != nil {
			return fmt.Errorf("%sREQUIRE_INITIAL_REFRESH: invalid boolean %q", EnvPrefix, k.String("require_initial_refresh"))
		}
		cfg.RequireInitialRefresh = v
	}

	durations := []struct {
		key    string
		target *Duration
	}{
		{"poll_interval", &cfg.PollInterval},
		{"api.timeout", &cfg.API.Timeout},
	}
	for _, d := range durations {
		if !k.Exists(d.key) {
			continue
		}
		parsed, err := time.ParseDuration(k.String(d.key))
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", envName(d.key), k.String(d.key), err)
		}
		*d.target = Duration(parsed)
	}

	return nil
}

// envName maps a config key back to its environment variable name.
func envName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "__"))
}
