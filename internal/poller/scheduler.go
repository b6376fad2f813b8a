package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Refresher performs one refresh and reports whether it succeeded.
type Refresher interface {
	Refresh(ctx context.Context) bool
}

// Trigger names what caused a refresh.
type Trigger string

const (
	// TriggerStartup is the immediate refresh performed by Start.
	TriggerStartup Trigger = "startup"

	// TriggerInterval is a refresh fired by the periodic timer.
	TriggerInterval Trigger = "interval"

	// TriggerRequest is a refresh asked for through Request.
	TriggerRequest Trigger = "request"
)

// Outcome holds the result of a single refresh.
type Outcome struct {
	// Trigger is what caused the refresh.
	Trigger Trigger
	// Success is the cache's success flag after the refresh.
	Success bool
	// StartedAt is when the refresh began.
	StartedAt time.Time
	// Duration is how long the refresh took.
	Duration time.Duration
}

// Scheduler refreshes a [Refresher] on a fixed period and on request.
//
// The scheduler refreshes immediately on start, then every interval. Calls
// to [Scheduler.Request] are coalesced: at most one request is pending at a
// time, and a request that arrives while a refresh is running causes exactly
// one more refresh after it. A requested refresh restarts the interval timer.
//
// Outcomes are emitted on [Scheduler.Results], which the caller must drain.
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration
	logger    *slog.Logger
	results   chan Outcome
	requests  chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once
}

// NewScheduler creates a new refresh [Scheduler].
//
// Parameters:
//   - refresher: The refresh entry point (typically the store's Cache)
//   - interval: Time between periodic refreshes; must be positive
//   - logger: Logger for scheduler events
//
// The scheduler must be started with [Scheduler.Start] and stopped with
// [Scheduler.Stop].
func NewScheduler(refresher Refresher, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		refresher: refresher,
		interval:  interval,
		logger:    logger,
		results:   make(chan Outcome, 1),
		requests:  make(chan struct{}, 1),
	}
}

// Results returns a receive-only channel that emits one [Outcome] per refresh.
//
// The channel is closed when the scheduler stops.
func (s *Scheduler) Results() <-chan Outcome {
	return s.results
}

// Interval returns the periodic refresh interval.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start begins the refresh loop in a background goroutine.
//
// Start is non-blocking. The loop refreshes immediately, then on every tick
// and on every pending request, until [Scheduler.Stop] is called or ctx is
// cancelled. If ctx is nil, context.Background() is used.
// Start is idempotent; if Stop was called first, Start is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	loopCtx := s.ctx // capture under lock to avoid race
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.closeOnce.Do(func() { close(s.results) })

		if !s.run(loopCtx, TriggerStartup) {
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-ticker.C:
				if !s.run(loopCtx, TriggerInterval) {
					return
				}
			case <-s.requests:
				if !s.run(loopCtx, TriggerRequest) {
					return
				}
				ticker.Reset(s.interval)
			}
		}
	}()
}

// Request asks for a refresh as soon as possible.
//
// Request never blocks. It returns true if the request was queued and false
// if a request was already pending, in which case the pending one covers it.
// Requests made before Start are served right after the startup refresh.
func (s *Scheduler) Request() bool {
	select {
	case s.requests <- struct{}{}:
		return true
	default:
		return false
	}
}

// Stop halts the scheduler and waits for the loop to exit.
//
// An in-flight refresh sees its context cancelled. Stop is idempotent, and
// calling it before Start is a safe no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	// ensure channel is closed even if Start() was never called
	s.closeOnce.Do(func() { close(s.results) })
}

// run performs one refresh and emits its outcome. It returns false if the
// context ended before the outcome could be delivered.
func (s *Scheduler) run(ctx context.Context, trigger Trigger) bool {
	if ctx.Err() != nil {
		return false
	}

	startedAt := time.Now()
	success := s.refresher.Refresh(ctx)
	outcome := Outcome{
		Trigger:   trigger,
		Success:   success,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
	}

	select {
	case s.results <- outcome:
		return true
	case <-ctx.Done():
		return false
	}
}
