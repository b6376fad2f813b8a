// Package launchboard provides an embeddable dashboard of SpaceX launch
// and Starman roadster sensors, backed by the public SpaceX API.
//
// LaunchBoard polls three documents (the roadster telemetry, the next launch
// and the latest launch) on a fixed interval and exposes values derived from
// them as read-only entities: binary sensors ("launch within 24 hours"),
// text sensors (mission name, launch day, countdown) and numeric sensors
// (roadster speed and distance).
//
// # Quick Start
//
//	lb, _ := launchboard.New()
//
//	// Set up graceful shutdown on SIGINT/SIGTERM
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	lb.Start(ctx) // blocks until context is cancelled
//
// # Configuration
//
// LaunchBoard uses the functional options pattern for configuration:
//
//	lb, err := launchboard.New(
//	    launchboard.WithPollingInterval(5 * time.Minute),
//	    launchboard.WithPort(9090),
//	    launchboard.WithLocation(time.UTC),
//	    launchboard.WithRequireInitialRefresh(true),
//	)
//
// # Refresh and staleness
//
// Every refresh fetches all three documents in order. If any fetch fails the
// previous snapshot is kept and every entity reports unavailable until the
// next successful refresh; entities still render the stale values. A refresh
// is never retried early: the next attempt is the next tick or an explicit
// [LaunchBoard.RequestRefresh].
//
// # Architecture
//
// LaunchBoard consists of several internal packages (under internal/):
//
//   - internal/spacex: HTTP client for the SpaceX API with typed errors
//   - internal/store: Polling cache with pub/sub for real-time updates
//   - internal/poller: Single-flight refresh scheduler
//   - internal/server: HTTP server with REST API, Server-Sent Events and WebSocket
//   - dashboard: Embedded web UI assets
//
// The internal packages are not part of the public API and may change
// without notice.
package launchboard
