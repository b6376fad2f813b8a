package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 16

// Cache is the polling cache for the three upstream documents.
//
// Cache stores at most one [Snapshot] and the success flag of the most
// recent refresh attempt. The flag is true iff the stored snapshot reflects
// the most recent attempt without error; a failed attempt keeps the prior
// snapshot untouched and sets the flag false.
//
// Read access is safe for concurrent use. Refresh must not be called
// concurrently with itself; the owner of the timer serializes refreshes.
type Cache struct {
	source Source
	logger *slog.Logger

	mu          sync.RWMutex
	snapshot    *Snapshot
	success     bool
	lastErr     error
	lastAttempt time.Time
	lastSuccess time.Time

	subscribers map[chan Change]struct{}
	subMu       sync.RWMutex
}

// NewCache creates an empty [Cache] over source.
//
// The cache holds no snapshot and reports not-successful until the first
// refresh succeeds. If logger is nil, [slog.Default] is used.
func NewCache(source Source, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		source:      source,
		logger:      logger,
		subscribers: make(map[chan Change]struct{}),
	}
}

// Refresh fetches the three upstream documents in sequence and updates the
// cache, returning the resulting success flag.
//
// On success the stored snapshot is replaced wholesale and the flag is set.
// On the first fetch error the remaining fetches are skipped, the stored
// snapshot is left untouched, the flag is cleared and the error is recorded
// (see [Cache.Status]). The error is logged, not returned. Subscribers are
// notified after the new state is visible to readers.
func (c *Cache) Refresh(ctx context.Context) bool {
	attemptID := uuid.NewString()
	startedAt := time.Now()

	c.logger.Debug("refreshing spacex data", "attempt_id", attemptID)
	snapshot, err := c.fetch(ctx, startedAt)

	c.mu.Lock()
	c.lastAttempt = startedAt
	if err != nil {
		c.success = false
		c.lastErr = err
	} else {
		c.snapshot = snapshot
		c.success = true
		c.lastErr = nil
		c.lastSuccess = startedAt
	}
	c.mu.Unlock()

	logAttrs := []any{
		"attempt_id", attemptID,
		"duration_ms", time.Since(startedAt).Milliseconds(),
	}
	if err != nil {
		c.logger.Warn("error fetching spacex data", append(logAttrs, "error", err.Error())...)
	} else {
		c.logger.Debug("spacex data refreshed", logAttrs...)
	}

	c.notifySubscribers(Change{Success: err == nil, At: startedAt})
	return err == nil
}

// fetch performs the three upstream calls, stopping at the first error.
func (c *Cache) fetch(ctx context.Context, startedAt time.Time) (*Snapshot, error) {
	starman, err := c.source.GetRoadsterStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching roadster status: %w", err)
	}

	nextLaunch, err := c.source.GetNextLaunch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching next launch: %w", err)
	}

	latestLaunch, err := c.source.GetLatestLaunch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching latest launch: %w", err)
	}

	return NewSnapshot(starman, nextLaunch, latestLaunch, startedAt), nil
}

// Read returns the current snapshot (nil before the first success) and the
// success flag of the most recent attempt.
func (c *Cache) Read() (*Snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, c.success
}

// LastError returns the error recorded by the most recent attempt, or nil.
func (c *Cache) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Status returns a point-in-time [Status] of the cache.
func (c *Cache) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var errStr *string
	if c.lastErr != nil {
		s := c.lastErr.Error()
		errStr = &s
	}

	return Status{
		Success:     c.success,
		HasSnapshot: c.snapshot != nil,
		LastError:   errStr,
		Err:         c.lastErr,
		LastAttempt: c.lastAttempt,
		LastSuccess: c.lastSuccess,
	}
}

// Subscribe creates a new subscription and returns a channel for receiving
// a [Change] after every refresh attempt.
//
// If the channel buffer fills (slow consumer), new changes are dropped for
// this subscriber. Caller must call [Cache.Unsubscribe] when done.
func (c *Cache) Subscribe() <-chan Change {
	ch := make(chan Change, subscriberBuffer)

	c.subMu.Lock()
	c.subscribers[ch] = struct{}{}
	c.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
// Safe to call multiple times or with an unknown channel.
func (c *Cache) Unsubscribe(ch <-chan Change) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for subCh := range c.subscribers {
		if subCh == ch {
			delete(c.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends change to all subscribers without blocking.
func (c *Cache) notifySubscribers(change Change) {
	c.subMu.RLock()
	defer c.subMu.RUnlock()

	for ch := range c.subscribers {
		select {
		case ch <- change:
		default:
			// subscriber is slow, drop the change
		}
	}
}
