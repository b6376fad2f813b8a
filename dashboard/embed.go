// Package dashboard provides the embedded web UI assets for LaunchBoard.
//
// This package uses Go's embed directive to include the dashboard HTML, CSS,
// and JavaScript at compile time. This enables single-binary deployment
// without external asset files.
//
// The embedded assets are served by the server package at the root path ("/").
// Users of the launchboard library should not need to interact with this
// package directly.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the dashboard web UI.
//
// The filesystem structure is:
//
//	assets/
//	  index.html    - Entity cards, fed by the WebSocket stream with an SSE fallback
//
// The page carries a "{{.Title}}" placeholder that the server replaces with
// the configured, HTML-escaped title.
//
//go:embed assets/*
var Assets embed.FS
