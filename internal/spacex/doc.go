// Package spacex provides the upstream client for the public SpaceX API.
//
// This package is internal to LaunchBoard and performs the three read-only
// fetches the polling cache depends on:
//
//   - [Client.GetRoadsterStatus]: Starman roadster telemetry ("/roadster")
//   - [Client.GetNextLaunch]: the next scheduled launch ("/launches/next")
//   - [Client.GetLatestLaunch]: the most recent launch ("/launches/latest")
//
// Each fetch returns a [Document] (an arbitrary JSON object) or one of two
// error kinds: [ConnectionError] when the API could not be reached or
// answered with a non-2xx status, and [ValidationError] when the body was
// not a usable payload. No retry or authentication logic lives here.
package spacex
