package store

import (
	"context"
	"time"

	"github.com/jpalmerr/launchboard/internal/spacex"
)

// Source is the upstream data source consulted on every refresh.
//
// Each operation returns a key-value document or an error. Source is
// treated as opaque: retries and authentication, if any, belong to the
// implementation, not to the cache.
type Source interface {
	// GetRoadsterStatus returns the Starman roadster telemetry document.
	GetRoadsterStatus(ctx context.Context) (spacex.Document, error)

	// GetNextLaunch returns the next scheduled launch document.
	GetNextLaunch(ctx context.Context) (spacex.Document, error)

	// GetLatestLaunch returns the most recent launch document.
	GetLatestLaunch(ctx context.Context) (spacex.Document, error)
}

// Reader exposes the cached snapshot to read-only consumers such as views.
type Reader interface {
	// Read returns the current snapshot, possibly stale and possibly nil,
	// along with the success flag of the most recent refresh attempt.
	// Read never blocks on a fetch and never triggers one.
	Read() (*Snapshot, bool)
}

// Change is published to subscribers after every refresh attempt.
type Change struct {
	// Success is the success flag after the attempt.
	Success bool `json:"success"`

	// At is when the attempt started.
	At time.Time `json:"at"`
}

// Status is a point-in-time view of the cache, optimized for JSON
// serialization by the HTTP API.
type Status struct {
	// Success is the success flag of the most recent attempt.
	Success bool `json:"success"`

	// HasSnapshot is true once any refresh has succeeded.
	HasSnapshot bool `json:"has_snapshot"`

	// LastError is the error recorded by the most recent attempt.
	// nil when the most recent attempt succeeded or none was made.
	LastError *string `json:"last_error"`

	// Err is the raw error behind LastError, read under the same lock.
	Err error `json:"-"`

	// LastAttempt is when the most recent attempt started.
	LastAttempt time.Time `json:"last_attempt"`

	// LastSuccess is when the current snapshot was captured.
	LastSuccess time.Time `json:"last_success"`
}
