package launchboard

import (
	"errors"
	"log/slog"
	"net/url"
	"time"
)

// lbConfig holds mutable state during LaunchBoard construction.
type lbConfig struct {
	title                 string
	pollingInterval       time.Duration
	port                  int
	logger                *slog.Logger
	baseURL               string
	timeout               time.Duration
	headers               map[string]string
	location              *time.Location
	clock                 func() time.Time
	source                Source
	refreshCallbacks      []func(RefreshResult)
	requireInitialRefresh bool
}

// Option is a function that configures a [LaunchBoard] instance during construction.
//
// Options return an error if validation fails; [New] stops at the first one.
type Option func(*lbConfig) error

// WithPollingInterval sets how often the SpaceX API is refreshed.
//
// Defaults to 120 seconds if not specified.
//
// Returns an error if the duration is zero or negative.
func WithPollingInterval(d time.Duration) Option {
	return func(cfg *lbConfig) error {
		if d <= 0 {
			return errors.New("polling interval must be positive")
		}
		cfg.pollingInterval = d
		return nil
	}
}

// WithPort sets the HTTP port for the dashboard server.
//
// Defaults to 8080 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *lbConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the LaunchBoard instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *lbConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithTitle sets the dashboard title displayed in the browser tab and header.
//
// If not specified, defaults to "LaunchBoard".
func WithTitle(title string) Option {
	return func(cfg *lbConfig) error {
		cfg.title = title
		return nil
	}
}

// WithBaseURL points the built-in client at a different SpaceX API root,
// e.g. a mirror or a local mock. Ignored when [WithSource] is used.
//
// Returns an error if the URL is not absolute http(s).
func WithBaseURL(raw string) Option {
	return func(cfg *lbConfig) error {
		u, err := url.Parse(raw)
		if err != nil {
			return errors.New("invalid base URL: " + err.Error())
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New("base URL must use http or https scheme")
		}
		if u.Host == "" {
			return errors.New("base URL must include a host")
		}
		cfg.baseURL = raw
		return nil
	}
}

// WithTimeout sets the per-request timeout of the built-in client.
//
// Defaults to 10 seconds. Returns an error if the duration is not positive.
func WithTimeout(d time.Duration) Option {
	return func(cfg *lbConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithHeaders adds HTTP headers sent with every upstream request.
//
// Arguments are key-value pairs. Can be called multiple times; later values
// replace earlier ones for the same key.
//
// Example:
//
//	lb, err := launchboard.New(
//	    launchboard.WithHeaders("User-Agent", "my-board/1.0"),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(kv ...string) Option {
	return func(cfg *lbConfig) error {
		if len(kv)%2 != 0 {
			return errors.New("headers must be key-value pairs")
		}
		if cfg.headers == nil {
			cfg.headers = make(map[string]string, len(kv)/2)
		}
		for i := 0; i < len(kv); i += 2 {
			if kv[i] == "" {
				return errors.New("header name cannot be empty")
			}
			cfg.headers[kv[i]] = kv[i+1]
		}
		return nil
	}
}

// WithLocation sets the time zone used by the day and time sensors.
//
// Defaults to [time.Local]. Returns an error if loc is nil.
func WithLocation(loc *time.Location) Option {
	return func(cfg *lbConfig) error {
		if loc == nil {
			return errors.New("location cannot be nil")
		}
		cfg.location = loc
		return nil
	}
}

// WithClock replaces the wall clock used by time-relative sensors
// (countdown, launch warnings). Intended for tests.
//
// Returns an error if now is nil.
func WithClock(now func() time.Time) Option {
	return func(cfg *lbConfig) error {
		if now == nil {
			return errors.New("clock cannot be nil")
		}
		cfg.clock = now
		return nil
	}
}

// WithSource replaces the built-in SpaceX API client.
//
// Returns an error if source is nil.
func WithSource(source Source) Option {
	return func(cfg *lbConfig) error {
		if source == nil {
			return errors.New("source cannot be nil")
		}
		cfg.source = source
		return nil
	}
}

// WithRefreshCallback registers a function to be called after every refresh attempt.
//
// Multiple callbacks may be registered; they execute in registration order.
//
// IMPORTANT: Callbacks must be non-blocking. Blocking callbacks delay the
// processing of subsequent refresh outcomes.
//
// Callbacks are invoked synchronously from a single goroutine. Panics within
// callbacks are recovered and logged; they do not crash the scheduler.
//
// Example:
//
//	lb, err := launchboard.New(
//	    launchboard.WithRefreshCallback(func(r launchboard.RefreshResult) {
//	        if !r.Success {
//	            log.Printf("refresh failed: %v", r.Err)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithRefreshCallback(cb func(RefreshResult)) Option {
	return func(cfg *lbConfig) error {
		if cb == nil {
			return nil
		}
		cfg.refreshCallbacks = append(cfg.refreshCallbacks, cb)
		return nil
	}
}

// WithRequireInitialRefresh makes [LaunchBoard.Start] fail with
// [ErrNotReady] when the startup refresh fails, instead of serving
// unavailable entities until a later refresh succeeds.
func WithRequireInitialRefresh(require bool) Option {
	return func(cfg *lbConfig) error {
		cfg.requireInitialRefresh = require
		return nil
	}
}
