// Package poller drives periodic and on-demand refreshes of the polling cache.
//
// This package is internal to LaunchBoard. It owns the refresh timer that the
// cache deliberately does not: one refresh immediately on start, then one per
// interval, plus refreshes requested explicitly through [Scheduler.Request].
//
// The main components are:
//
//   - [Refresher]: The refresh entry point, implemented by the store's Cache
//   - [Scheduler]: Single-flight refresh loop with request coalescing
//   - [Outcome]: Result of one refresh, emitted on [Scheduler.Results]
//
// All refreshes run on the scheduler's single goroutine, so two refreshes
// never overlap.
package poller
