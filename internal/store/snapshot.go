package store

import (
	"time"

	"github.com/jpalmerr/launchboard/internal/spacex"
)

// Snapshot is the bundle of the three most recently fetched documents.
//
// A Snapshot is immutable once captured. The cache replaces it wholesale on
// every successful refresh and never updates it in place, so a reader holding
// a Snapshot always sees one consistent set of documents. The documents
// themselves must not be modified by readers.
type Snapshot struct {
	starman      spacex.Document
	nextLaunch   spacex.Document
	latestLaunch spacex.Document
	capturedAt   time.Time
}

// NewSnapshot captures the three documents as one snapshot.
func NewSnapshot(starman, nextLaunch, latestLaunch spacex.Document, capturedAt time.Time) *Snapshot {
	return &Snapshot{
		starman:      starman,
		nextLaunch:   nextLaunch,
		latestLaunch: latestLaunch,
		capturedAt:   capturedAt,
	}
}

// Starman returns the roadster telemetry document. Nil-safe.
func (s *Snapshot) Starman() spacex.Document {
	if s == nil {
		return nil
	}
	return s.starman
}

// NextLaunch returns the next launch document. Nil-safe.
func (s *Snapshot) NextLaunch() spacex.Document {
	if s == nil {
		return nil
	}
	return s.nextLaunch
}

// LatestLaunch returns the latest launch document. Nil-safe.
func (s *Snapshot) LatestLaunch() spacex.Document {
	if s == nil {
		return nil
	}
	return s.latestLaunch
}

// CapturedAt returns when the refresh that produced the snapshot started.
// Zero for a nil snapshot.
func (s *Snapshot) CapturedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.capturedAt
}
