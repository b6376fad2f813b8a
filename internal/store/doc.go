// Package store provides the polling cache for upstream SpaceX data.
//
// This package is internal to LaunchBoard and owns the data-refresh and
// staleness lifecycle. It holds at most one [Snapshot] of the three upstream
// documents together with a success flag for the most recent refresh
// attempt, and publishes a [Change] to subscribers after every attempt.
//
// The main components are:
//
//   - [Source]: Interface for the three upstream fetch operations
//   - [Cache]: The polling cache with all-or-nothing refresh and pub/sub
//   - [Snapshot]: Immutable bundle of the three most recently fetched documents
//   - [Status]: Point-in-time view of the cache for diagnostics
//
// The cache never schedules itself. Whoever constructs it owns the timer and
// must not call [Cache.Refresh] concurrently; the poller package does this.
// Subscribers receive changes via channels with non-blocking sends (slow
// subscribers miss changes rather than block a refresh).
package store
