package launchboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jpalmerr/launchboard/dashboard"
	"github.com/jpalmerr/launchboard/internal/poller"
	"github.com/jpalmerr/launchboard/internal/server"
	"github.com/jpalmerr/launchboard/internal/spacex"
	"github.com/jpalmerr/launchboard/internal/store"
)

const (
	defaultPollingInterval = 120 * time.Second
	defaultPort            = 8080
	defaultUserAgent       = "launchboard"
)

// ErrNotReady is returned by [LaunchBoard.Start] when
// [WithRequireInitialRefresh] is set and the startup refresh fails.
var ErrNotReady = errors.New("spacex data not ready")

// LaunchBoard polls the SpaceX API and serves the derived entities.
//
// LaunchBoard owns one polling cache, refreshed by a scheduler every polling
// interval and on request, and a fixed set of read-only entities rendered
// from the cache. It is created using [New] with functional options and
// started with [LaunchBoard.Start].
//
// The typical lifecycle is:
//
//	lb, err := launchboard.New(launchboard.WithPort(9090))
//	if err != nil {
//	    slog.Error("failed to create launchboard", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	lb.Start(ctx) // blocks until context cancelled
//
// The caller controls the lifecycle via the context. Cancel the context to
// trigger graceful shutdown. A LaunchBoard can be started once.
type LaunchBoard struct {
	title                 string
	pollingInterval       time.Duration
	port                  int
	logger                *slog.Logger
	location              *time.Location
	now                   func() time.Time
	refreshCallbacks      []func(RefreshResult)
	requireInitialRefresh bool

	source Source
	client *spacex.Client // nil when a custom source is used

	cache     *store.Cache
	scheduler *poller.Scheduler
	env       *viewEnv
	entities  []Entity

	mu      sync.Mutex
	started bool
}

// New creates a new [LaunchBoard] instance with the given options.
//
// All options have sensible defaults:
//   - Polling interval: 120 seconds
//   - Port: 8080
//   - Source: the public SpaceX v4 API, 10 second timeout
//   - Location: [time.Local]
//
// Returns an error if any option is invalid.
//
// Example:
//
//	lb, err := launchboard.New(
//	    launchboard.WithPollingInterval(5 * time.Minute),
//	    launchboard.WithLocation(time.UTC),
//	)
func New(opts ...Option) (*LaunchBoard, error) {
	cfg := &lbConfig{
		pollingInterval: defaultPollingInterval,
		port:            defaultPort,
		timeout:         spacex.DefaultTimeout,
		location:        time.Local,
		clock:           time.Now,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	lb := &LaunchBoard{
		title:                 cfg.title,
		pollingInterval:       cfg.pollingInterval,
		port:                  cfg.port,
		logger:                logger,
		location:              cfg.location,
		now:                   cfg.clock,
		refreshCallbacks:      cfg.refreshCallbacks,
		requireInitialRefresh: cfg.requireInitialRefresh,
		source:                cfg.source,
	}

	if lb.source == nil {
		headers := map[string]string{"User-Agent": defaultUserAgent}
		for k, v := range cfg.headers {
			headers[k] = v
		}
		lb.client = spacex.NewClient(cfg.baseURL, cfg.timeout, headers)
		lb.source = lb.client
	}

	lb.cache = store.NewCache(lb.source, logger)
	lb.scheduler = poller.NewScheduler(lb.cache, lb.pollingInterval, logger)
	lb.env = &viewEnv{reader: lb.cache, now: lb.now, loc: lb.location}
	lb.entities = newEntities(lb.env)

	return lb, nil
}

// Start begins refreshing SpaceX data and serving the dashboard.
//
// Start is a blocking call that runs until the provided context is cancelled.
// During execution:
//
//   - The cache is refreshed immediately, then at the polling interval and
//     whenever [LaunchBoard.RequestRefresh] is called
//   - The HTTP server starts on the configured port
//   - Refresh outcomes are logged and passed to refresh callbacks
//   - The dashboard is available at http://localhost:<port>
//
// With [WithRequireInitialRefresh], Start waits for the startup refresh and
// returns an error wrapping [ErrNotReady] if it fails.
//
// Returns nil on graceful shutdown. Returns an error if the HTTP server fails
// to start or Start was already called.
func (lb *LaunchBoard) Start(ctx context.Context) error {
	lb.mu.Lock()
	if lb.started {
		lb.mu.Unlock()
		return errors.New("launchboard already started")
	}
	lb.started = true
	lb.mu.Unlock()

	defer lb.client.Close()

	lb.logger.Info("launchboard starting", "entity_count", len(lb.entities))
	lb.logger.Info("polling configured", "interval", lb.pollingInterval.String())

	// check if context already cancelled
	if ctx.Err() != nil {
		lb.scheduler.Stop()
		return nil
	}

	lb.scheduler.Start(ctx)

	if lb.requireInitialRefresh {
		outcome, ok := <-lb.scheduler.Results()
		if !ok {
			// context cancelled before the startup refresh finished
			lb.scheduler.Stop()
			return nil
		}
		lb.handleOutcome(outcome)
		if !outcome.Success {
			lb.scheduler.Stop()
			return fmt.Errorf("%w: %v", ErrNotReady, lb.cache.LastError())
		}
	}

	// track the results consumer goroutine to ensure clean shutdown
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for outcome := range lb.scheduler.Results() {
			lb.handleOutcome(outcome)
		}
	}()

	// cleanup function ensures scheduler is stopped and all outcomes are processed
	cleanup := func() {
		lb.scheduler.Stop() // closes results channel
		wg.Wait()
	}

	httpServer := server.NewServer(board{lb}, lb.port, dashboard.Assets, lb.title, lb.logger)
	if err := httpServer.Start(ctx); err != nil {
		cleanup()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	lb.logger.Info("dashboard available", "url", fmt.Sprintf("http://localhost:%d", lb.port))

	<-ctx.Done()
	cleanup()
	lb.logger.Info("launchboard stopped")
	return nil
}

// handleOutcome logs a refresh outcome and fires the refresh callbacks.
func (lb *LaunchBoard) handleOutcome(outcome poller.Outcome) {
	result := RefreshResult{
		Trigger:   string(outcome.Trigger),
		Success:   outcome.Success,
		StartedAt: outcome.StartedAt,
		Duration:  outcome.Duration,
	}
	if !outcome.Success {
		result.Err = lb.cache.LastError()
	}

	for _, cb := range lb.refreshCallbacks {
		invokeCallbackSafe(cb, result, lb.logger)
	}

	logAttrs := []any{
		"trigger", result.Trigger,
		"success", result.Success,
		"duration_ms", result.Duration.Milliseconds(),
	}
	if result.Success {
		lb.logger.Debug("refresh completed", logAttrs...)
	} else {
		lb.logger.Info("refresh completed, entities unavailable", logAttrs...)
	}
}

// Refresh performs one synchronous refresh outside the scheduler and returns
// the recorded error, if any.
//
// Refresh is meant for one-shot use before or instead of [LaunchBoard.Start]
// (the CLI "states" command). It must not run concurrently with a started
// board; use [LaunchBoard.RequestRefresh] there.
func (lb *LaunchBoard) Refresh(ctx context.Context) error {
	if lb.cache.Refresh(ctx) {
		return nil
	}
	return lb.cache.LastError()
}

// RequestRefresh asks the scheduler for an on-demand refresh.
//
// The call never blocks. It returns false if a request was already pending;
// the pending refresh covers this one. Requests made before Start are served
// right after the startup refresh.
func (lb *LaunchBoard) RequestRefresh() bool {
	return lb.scheduler.Request()
}

// Ping checks that the upstream source answers with a valid next-launch
// document. It does not touch the cache.
func (lb *LaunchBoard) Ping(ctx context.Context) error {
	_, err := lb.source.GetNextLaunch(ctx)
	return err
}

// Entities returns the board's entities.
//
// The returned slice is a copy; the entities themselves are live views over
// the cache and may render differently on every call.
func (lb *LaunchBoard) Entities() []Entity {
	cp := make([]Entity, len(lb.entities))
	copy(cp, lb.entities)
	return cp
}

// States renders every entity against one consistent snapshot.
func (lb *LaunchBoard) States() []State {
	snapshot, success := lb.cache.Read()
	env := &viewEnv{
		reader: pinnedReader{snapshot: snapshot, success: success},
		now:    fixedClock(lb.now()),
		loc:    lb.location,
	}

	entities := newEntities(env)
	states := make([]State, len(entities))
	for i, e := range entities {
		states[i] = renderState(e, snapshot.CapturedAt())
	}
	return states
}

// Status returns the cache's refresh status.
func (lb *LaunchBoard) Status() Status {
	st := lb.cache.Status()
	return Status{
		Success:     st.Success,
		HasSnapshot: st.HasSnapshot,
		LastError:   st.Err,
		LastAttempt: st.LastAttempt,
		LastSuccess: st.LastSuccess,
		Interval:    lb.pollingInterval,
	}
}

// Subscribe returns a channel that receives a [Change] after every refresh
// attempt. Slow readers miss changes rather than block refreshes. Caller
// must call [LaunchBoard.Unsubscribe] when done.
func (lb *LaunchBoard) Subscribe() <-chan Change {
	return lb.cache.Subscribe()
}

// Unsubscribe removes a subscription and closes its channel.
func (lb *LaunchBoard) Unsubscribe(ch <-chan Change) {
	lb.cache.Unsubscribe(ch)
}

// Port returns the configured HTTP port for the dashboard server.
func (lb *LaunchBoard) Port() int {
	return lb.port
}

// PollingInterval returns the configured interval between refreshes.
func (lb *LaunchBoard) PollingInterval() time.Duration {
	return lb.pollingInterval
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// invokeCallbackSafe calls a refresh callback with panic recovery.
// Panics are logged with a correlation ID but do not propagate.
func invokeCallbackSafe(cb func(RefreshResult), result RefreshResult, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("refresh callback panicked",
				"panic", r,
				"trigger", result.Trigger,
				"correlation_id", uuid.NewString(),
			)
		}
	}()
	cb(result)
}
