// Package server provides the HTTP server for the LaunchBoard dashboard and API.
//
// This package is internal to LaunchBoard and handles all HTTP concerns:
//
//   - Dashboard serving: Serves the embedded HTML dashboard at "/"
//   - REST API: Entity states at "/api/entities", cache status at "/api/status"
//   - Refresh signal: "POST /api/refresh" asks the scheduler for a refresh
//   - Push streams: Server-Sent Events at "/api/sse", WebSocket at "/api/ws"
//
// Entity states are re-rendered from the [Board] every time the cache
// publishes a change; the server keeps no state of its own. It supports
// graceful shutdown via context cancellation, with a 5-second timeout for
// in-flight requests.
package server
