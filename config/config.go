// Package config provides YAML configuration parsing for LaunchBoard.
//
// This package enables running LaunchBoard as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	title: Launch Control
//	port: 8080
//	poll_interval: 2m
//	timezone: America/New_York
//	log_level: info
//	require_initial_refresh: true
//
//	api:
//	  base_url: https://api.spacexdata.com/v4
//	  timeout: 10s
//	  headers:
//	    User-Agent: "launchboard (${CONTACT_EMAIL:-ops@example.com})"
//
// Every scalar setting can be overridden from the environment with the
// LAUNCHBOARD_ prefix; a double underscore descends into a section, e.g.
// LAUNCHBOARD_POLL_INTERVAL=5m or LAUNCHBOARD_API__BASE_URL=http://localhost:9000.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"
)

const (
	// minPollInterval is the minimum allowed polling interval. The upstream
	// API is public and rate limited.
	minPollInterval = 10 * time.Second

	// minTimeout is the minimum allowed per-request timeout.
	minTimeout = 1 * time.Second

	defaultPort         = 8080
	defaultPollInterval = 120 * time.Second
	defaultTimeout      = 10 * time.Second
	defaultLogLevel     = "info"
)

// Config is the root configuration structure for LaunchBoard.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Title is the dashboard title. Defaults to "LaunchBoard" if not set.
	Title string `yaml:"title"`

	// Port is the HTTP server port. Defaults to 8080.
	Port int `yaml:"port" validate:"gte=1,lte=65535"`

	// PollInterval is the time between refreshes of the SpaceX data.
	// Accepts duration strings like "90s", "2m". Defaults to 2m and must be
	// at least 10s.
	PollInterval Duration `yaml:"poll_interval"`

	// Timezone is the IANA zone used to render launch days and times,
	// e.g. "Europe/London". Empty means the host's local zone.
	Timezone string `yaml:"timezone"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// RequireInitialRefresh makes the server exit when the first refresh
	// fails instead of serving unavailable entities.
	RequireInitialRefresh bool `yaml:"require_initial_refresh"`

	// API configures the upstream client.
	API APIConfig `yaml:"api"`
}

// APIConfig configures the SpaceX API client.
type APIConfig struct {
	// BaseURL is the API root. Empty selects the public v4 API.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// Headers are custom HTTP headers sent with each request.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		// a non-empty group 2 means the default syntax was used, even for ${VAR:-}
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Processing order: YAML is decoded, LAUNCHBOARD_* environment overrides are
// applied (see [ApplyEnv]), defaults fill in unset fields, then ${VAR}
// references in the base URL and header values are expanded and the result
// is validated. Empty data yields the default configuration.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills zero-valued fields.
func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.PollInterval == 0 {
		c.PollInterval = Duration(defaultPollInterval)
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = Duration(defaultTimeout)
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if err := structValidator().Struct(c); err != nil {
		return describeValidation(err)
	}

	if c.PollInterval.Duration() < minPollInterval {
		return fmt.Errorf("poll_interval must be at least %s, got %s", minPollInterval, c.PollInterval.Duration())
	}

	if c.API.Timeout.Duration() < minTimeout {
		return fmt.Errorf("api.timeout must be at least %s, got %s", minTimeout, c.API.Timeout.Duration())
	}

	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("timezone: unknown zone %q: %w", c.Timezone, err)
		}
	}

	if c.API.BaseURL != "" {
		expanded, err := expandEnvVars(c.API.BaseURL)
		if err != nil {
			return fmt.Errorf("api.base_url: %w", err)
		}
		c.API.BaseURL = expanded

		parsedURL, err := url.Parse(c.API.BaseURL)
		if err != nil {
			return fmt.Errorf("api.base_url: invalid url: %w", err)
		}
		if parsedURL.Scheme == "" {
			return fmt.Errorf("api.base_url: url must have a scheme (http:// or https://)")
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("api.base_url: url scheme must be http or https, got %q", parsedURL.Scheme)
		}
		if parsedURL.Host == "" {
			return fmt.Errorf("api.base_url: url must include a host")
		}
	}

	for k, v := range c.API.Headers {
		if k == "" {
			return fmt.Errorf("api.headers: header name cannot be empty")
		}
		expanded, err := expandEnvVars(v)
		if err != nil {
			return fmt.Errorf("api.headers[%s]: %w", k, err)
		}
		c.API.Headers[k] = expanded
	}

	return nil
}

// Location returns the configured time zone, or [time.Local] when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel converts "debug", "info", "warn" or "error" to a [slog.Level].
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

// structValidator returns a validator that reports fields by their YAML name.
func structValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// describeValidation turns the first validator failure into a readable error.
func describeValidation(err error) error {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid config: %w", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "gte", "lte":
		return fmt.Errorf("%s must be between 1 and 65535, got %v", fe.Field(), fe.Value())
	case "oneof":
		return fmt.Errorf("%s must be one of %s, got %q", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	default:
		return fmt.Errorf("%s: failed %q validation", fe.Field(), fe.Tag())
	}
}
