package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.PollInterval.Duration() != 120*time.Second {
		t.Errorf("PollInterval = %v, want 2m", cfg.PollInterval.Duration())
	}
	if cfg.API.Timeout.Duration() != 10*time.Second {
		t.Errorf("API.Timeout = %v, want 10s", cfg.API.Timeout.Duration())
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.API.BaseURL != "" {
		t.Errorf("API.BaseURL = %q, want empty", cfg.API.BaseURL)
	}
	if cfg.RequireInitialRefresh {
		t.Error("RequireInitialRefresh = true, want false")
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
title: Launch Control
port: 9090
poll_interval: 5m
timezone: UTC
log_level: DEBUG
require_initial_refresh: true

api:
  base_url: http://localhost:9000/v4
  timeout: 3s
  headers:
    User-Agent: launchboard-test
    X-Trace: "on"
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Title != "Launch Control" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Launch Control")
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.PollInterval.Duration() != 5*time.Minute {
		t.Errorf("PollInterval = %v, want 5m", cfg.PollInterval.Duration())
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Timezone)
	}
	// levels are normalised to lower case
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !cfg.RequireInitialRefresh {
		t.Error("RequireInitialRefresh = false, want true")
	}
	if cfg.API.BaseURL != "http://localhost:9000/v4" {
		t.Errorf("API.BaseURL = %q, want http://localhost:9000/v4", cfg.API.BaseURL)
	}
	if cfg.API.Timeout.Duration() != 3*time.Second {
		t.Errorf("API.Timeout = %v, want 3s", cfg.API.Timeout.Duration())
	}
	if cfg.API.Headers["User-Agent"] != "launchboard-test" {
		t.Errorf("Headers[User-Agent] = %q, want launchboard-test", cfg.API.Headers["User-Agent"])
	}
	if cfg.API.Headers["X-Trace"] != "on" {
		t.Errorf("Headers[X-Trace] = %q, want on", cfg.API.Headers["X-Trace"])
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "launchboard.yaml")
	if err := os.WriteFile(path, []byte("port: 9191\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9191 {
		t.Errorf("Port = %d, want 9191", cfg.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("error = %q, want to contain 'failed to read config file'", err.Error())
	}
}

func TestParse_EnvVarSubstitution(t *testing.T) {
	// t.Setenv auto-restores after test (Go 1.17+)
	t.Setenv("TEST_API_HOST", "mirror.test.com")
	t.Setenv("TEST_CONTACT", "ops@test.com")

	yaml := `
api:
  base_url: https://${TEST_API_HOST}/v4
  headers:
    User-Agent: "launchboard (${TEST_CONTACT})"
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.API.BaseURL != "https://mirror.test.com/v4" {
		t.Errorf("API.BaseURL = %q, want https://mirror.test.com/v4", cfg.API.BaseURL)
	}
	if cfg.API.Headers["User-Agent"] != "launchboard (ops@test.com)" {
		t.Errorf("Headers[User-Agent] = %q, want 'launchboard (ops@test.com)'", cfg.API.Headers["User-Agent"])
	}
}

func TestParse_EnvVarDefault(t *testing.T) {
	yaml := `
api:
  base_url: https://${UNSET_VAR:-fallback.example.com}/v4
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.API.BaseURL != "https://fallback.example.com/v4" {
		t.Errorf("API.BaseURL = %q, want https://fallback.example.com/v4", cfg.API.BaseURL)
	}
}

func TestParse_EnvVarMissing(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "base url",
			yaml: `
api:
  base_url: https://${MISSING_VAR}/v4
`,
		},
		{
			name: "header value",
			yaml: `
api:
  headers:
    Authorization: "Bearer ${MISSING_VAR}"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// MISSING_VAR is expected to not exist in the environment
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error for missing env var, got nil")
			}
			if !strings.Contains(err.Error(), "MISSING_VAR") {
				t.Errorf("error should mention MISSING_VAR: %v", err)
			}
		})
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		wantErrLike string
	}{
		{
			name:        "port too large",
			yaml:        "port: 70000",
			wantErrLike: "port must be between 1 and 65535",
		},
		{
			name:        "negative port",
			yaml:        "port: -1",
			wantErrLike: "port must be between 1 and 65535",
		},
		{
			name:        "unknown log level",
			yaml:        "log_level: verbose",
			wantErrLike: "log_level must be one of debug, info, warn, error",
		},
		{
			name:        "poll interval below minimum",
			yaml:        "poll_interval: 5s",
			wantErrLike: "poll_interval must be at least 10s",
		},
		{
			name:        "timeout below minimum",
			yaml:        "api:\n  timeout: 500ms",
			wantErrLike: "api.timeout must be at least 1s",
		},
		{
			name:        "unknown timezone",
			yaml:        "timezone: Mars/Olympus_Mons",
			wantErrLike: "timezone: unknown zone",
		},
		{
			name:        "empty header name",
			yaml:        "api:\n  headers:\n    \"\": value",
			wantErrLike: "header name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErrLike) {
				t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErrLike)
			}
		})
	}
}

func TestParse_URLValidation(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantErr     bool
		wantErrLike string
	}{
		{"https", "https://api.spacexdata.com/v4", false, ""},
		{"http with port", "http://localhost:9000/v4", false, ""},
		{"missing scheme", "api.spacexdata.com/v4", true, "url must have a scheme"},
		{"ftp scheme", "ftp://api.spacexdata.com", true, "url scheme must be http or https"},
		{"missing host", "http:///v4", true, "url must include a host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte("api:\n  base_url: " + tt.url))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() expected error, got nil")
				}
				if !strings.Contains(err.Error(), tt.wantErrLike) {
					t.Errorf("error = %q, want to contain %q", err.Error(), tt.wantErrLike)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	yaml := `
this is not: valid: yaml: at all
  - broken
`
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatal("Parse() expected error for invalid YAML, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("error = %q, want to contain 'failed to parse YAML'", err.Error())
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte("poll_interval: not-a-duration"))
	if err == nil {
		t.Fatal("Parse() expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error = %q, want to contain 'invalid duration'", err.Error())
	}
}

func TestDuration_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"seconds", "10s", 10 * time.Second, false},
		{"milliseconds", "1500ms", 1500 * time.Millisecond, false},
		{"minutes", "2m", 2 * time.Minute, false},
		{"hours", "1h", 1 * time.Hour, false},
		{"combined", "1m30s", 90 * time.Second, false},
		{"invalid", "not-a-duration", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// api timeout must be >= 1s, so every valid input passes validation
			cfg, err := Parse([]byte("api:\n  timeout: " + tt.input))
			if tt.wantErr {
				if err == nil {
					t.Fatal("Parse() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if cfg.API.Timeout.Duration() != tt.want {
				t.Errorf("Timeout = %v, want %v", cfg.API.Timeout.Duration(), tt.want)
			}
		})
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR", "value")
	t.Setenv("EMPTY_VAR", "") // set but empty

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"no vars", "plain text", "plain text", false},
		{"simple var", "${TEST_VAR}", "value", false},
		{"var in text", "prefix ${TEST_VAR} suffix", "prefix value suffix", false},
		{"multiple vars", "${TEST_VAR}-${TEST_VAR}", "value-value", false},
		{"with default (var set)", "${TEST_VAR:-default}", "value", false},
		{"with default (var unset)", "${UNSET:-default}", "default", false},
		{"missing required", "${MISSING}", "", true},
		{"empty default (var unset)", "${UNSET:-}", "", false},
		{"set but empty var", "${EMPTY_VAR}", "", false},
		{"set but empty with default", "${EMPTY_VAR:-fallback}", "", false}, // set var takes precedence
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandEnvVars(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expandEnvVars() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("expandEnvVars() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("expandEnvVars() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_TitleEmpty(t *testing.T) {
	cfg, err := Parse([]byte("port: 8081"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	// empty title is valid (defaults to "LaunchBoard" at render time)
	if cfg.Title != "" {
		t.Errorf("Title = %q, want empty string", cfg.Title)
	}
}

func TestConfig_Location(t *testing.T) {
	cfg := &Config{}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc != time.Local {
		t.Errorf("Location() = %v, want time.Local", loc)
	}

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("Location() error = %v", err)
	}
	if loc.String() != "UTC" {
		t.Errorf("Location() = %v, want UTC", loc)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"ERROR", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseLogLevel() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLogLevel() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	cfg := &Config{LogLevel: "warn"}
	if got := cfg.SlogLevel(); got != slog.LevelWarn {
		t.Errorf("SlogLevel() = %v, want %v", got, slog.LevelWarn)
	}

	cfg.LogLevel = "nonsense"
	if got := cfg.SlogLevel(); got != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want %v", got, slog.LevelInfo)
	}
}
