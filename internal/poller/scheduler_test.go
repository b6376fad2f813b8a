package poller

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRefresher counts refreshes and tracks whether any two overlapped.
type fakeRefresher struct {
	calls      atomic.Int32
	inFlight   atomic.Int32
	overlapped atomic.Bool
	success    atomic.Bool

	// gate, if set, blocks each refresh until a value is received
	gate chan struct{}
}

func (f *fakeRefresher) Refresh(ctx context.Context) bool {
	if f.inFlight.Add(1) > 1 {
		f.overlapped.Store(true)
	}
	defer f.inFlight.Add(-1)

	f.calls.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return false
		}
	}
	return f.success.Load()
}

// nextOutcome waits for one outcome or fails the test.
func nextOutcome(t *testing.T, s *Scheduler) Outcome {
	t.Helper()
	select {
	case o, ok := <-s.Results():
		if !ok {
			t.Fatal("results channel closed unexpectedly")
		}
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for refresh outcome")
	}
	return Outcome{}
}

// TestScheduler_StopBeforeStart verifies that calling Stop() on a scheduler
// that was never started does not panic and is a safe no-op.
func TestScheduler_StopBeforeStart(t *testing.T) {
	scheduler := NewScheduler(&fakeRefresher{}, time.Minute, testLogger())

	// this must not panic
	scheduler.Stop()
}

// TestScheduler_StopTwice verifies that Stop() is idempotent.
func TestScheduler_StopTwice(t *testing.T) {
	scheduler := NewScheduler(&fakeRefresher{}, time.Minute, testLogger())
	scheduler.Start(context.Background())

	go func() {
		for range scheduler.Results() {
		}
	}()

	// both calls must complete without panic or deadlock
	scheduler.Stop()
	scheduler.Stop()
}

// TestScheduler_StartupRefresh verifies that Start refreshes immediately.
func TestScheduler_StartupRefresh(t *testing.T) {
	refresher := &fakeRefresher{}
	refresher.success.Store(true)

	scheduler := NewScheduler(refresher, time.Hour, testLogger())
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	outcome := nextOutcome(t, scheduler)
	if outcome.Trigger != TriggerStartup {
		t.Errorf("Trigger = %q, want %q", outcome.Trigger, TriggerStartup)
	}
	if !outcome.Success {
		t.Error("Success = false, want true")
	}
	if outcome.StartedAt.IsZero() {
		t.Error("StartedAt is zero")
	}
}

// TestScheduler_ReportsFailure verifies that a failed refresh is reported.
func TestScheduler_ReportsFailure(t *testing.T) {
	refresher := &fakeRefresher{}

	scheduler := NewScheduler(refresher, time.Hour, testLogger())
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	if outcome := nextOutcome(t, scheduler); outcome.Success {
		t.Error("Success = true, want false")
	}
}

// TestScheduler_IntervalRefresh verifies periodic refreshes after startup.
func TestScheduler_IntervalRefresh(t *testing.T) {
	refresher := &fakeRefresher{}

	scheduler := NewScheduler(refresher, 20*time.Millisecond, testLogger())
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	if got := nextOutcome(t, scheduler).Trigger; got != TriggerStartup {
		t.Fatalf("first Trigger = %q, want %q", got, TriggerStartup)
	}
	for i := 0; i < 2; i++ {
		if got := nextOutcome(t, scheduler).Trigger; got != TriggerInterval {
			t.Errorf("Trigger = %q, want %q", got, TriggerInterval)
		}
	}
}

// TestScheduler_Request verifies that an on-demand request triggers a refresh.
func TestScheduler_Request(t *testing.T) {
	refresher := &fakeRefresher{}

	scheduler := NewScheduler(refresher, time.Hour, testLogger())
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	nextOutcome(t, scheduler) // startup

	if !scheduler.Request() {
		t.Fatal("Request() = false with nothing pending")
	}
	if got := nextOutcome(t, scheduler).Trigger; got != TriggerRequest {
		t.Errorf("Trigger = %q, want %q", got, TriggerRequest)
	}
	if got := refresher.calls.Load(); got != 2 {
		t.Errorf("refresh calls = %d, want 2", got)
	}
}

// TestScheduler_RequestsCoalesce verifies that requests arriving during a
// refresh collapse into a single follow-up refresh, and that refreshes never
// overlap.
func TestScheduler_RequestsCoalesce(t *testing.T) {
	refresher := &fakeRefresher{gate: make(chan struct{})}

	scheduler := NewScheduler(refresher, time.Hour, testLogger())
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	// wait until the startup refresh is blocked in flight
	deadline := time.Now().Add(2 * time.Second)
	for refresher.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("startup refresh never began")
		}
		time.Sleep(time.Millisecond)
	}

	queued := 0
	for i := 0; i < 5; i++ {
		if scheduler.Request() {
			queued++
		}
	}
	if queued != 1 {
		t.Errorf("queued requests = %d, want 1", queued)
	}

	refresher.gate <- struct{}{} // finish startup refresh
	nextOutcome(t, scheduler)

	refresher.gate <- struct{}{} // finish the coalesced request
	if got := nextOutcome(t, scheduler).Trigger; got != TriggerRequest {
		t.Errorf("Trigger = %q, want %q", got, TriggerRequest)
	}

	if got := refresher.calls.Load(); got != 2 {
		t.Errorf("refresh calls = %d, want 2", got)
	}
	if refresher.overlapped.Load() {
		t.Error("two refreshes ran concurrently")
	}
}

// TestScheduler_ConcurrentRequestsNeverOverlap hammers Request from many
// goroutines. Run with: go test -race ./internal/poller/...
func TestScheduler_ConcurrentRequestsNeverOverlap(t *testing.T) {
	refresher := &fakeRefresher{}

	scheduler := NewScheduler(refresher, 5*time.Millisecond, testLogger())
	scheduler.Start(context.Background())

	go func() {
		for range scheduler.Results() {
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				scheduler.Request()
			}
		}()
	}
	wg.Wait()

	time.Sleep(20 * time.Millisecond)
	scheduler.Stop()

	if refresher.overlapped.Load() {
		t.Error("two refreshes ran concurrently")
	}
}

// TestScheduler_StopAfterStart verifies the normal lifecycle: Start followed
// by Stop results in clean shutdown with the results channel closed.
func TestScheduler_StopAfterStart(t *testing.T) {
	scheduler := NewScheduler(&fakeRefresher{}, time.Minute, testLogger())
	scheduler.Start(context.Background())
	nextOutcome(t, scheduler)

	scheduler.Stop()

	select {
	case _, ok := <-scheduler.Results():
		if ok {
			t.Error("expected results channel to be closed after Stop()")
		}
	case <-time.After(time.Second):
		t.Error("timeout waiting for results channel to close")
	}
}

// TestScheduler_StopCancelsInFlightRefresh verifies that Stop does not wait
// for a refresh that is blocked upstream.
func TestScheduler_StopCancelsInFlightRefresh(t *testing.T) {
	refresher := &fakeRefresher{gate: make(chan struct{})}

	scheduler := NewScheduler(refresher, time.Hour, testLogger())
	scheduler.Start(context.Background())

	deadline := time.Now().Add(2 * time.Second)
	for refresher.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("startup refresh never began")
		}
		time.Sleep(time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() blocked on in-flight refresh")
	}
}

// TestScheduler_StartTwice verifies that Start() is idempotent and calling
// it multiple times does not spawn multiple refresh loops.
func TestScheduler_StartTwice(t *testing.T) {
	refresher := &fakeRefresher{}

	scheduler := NewScheduler(refresher, time.Hour, testLogger())
	scheduler.Start(context.Background())
	scheduler.Start(context.Background()) // second call should be no-op

	nextOutcome(t, scheduler)
	scheduler.Stop()

	if got := refresher.calls.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}
}

// TestScheduler_StopBeforeStartThenStart verifies that Start after Stop is a no-op.
func TestScheduler_StopBeforeStartThenStart(t *testing.T) {
	refresher := &fakeRefresher{}
	scheduler := NewScheduler(refresher, time.Minute, testLogger())

	scheduler.Stop()
	scheduler.Start(context.TODO())
	scheduler.Stop()

	if got := refresher.calls.Load(); got != 0 {
		t.Errorf("refresh calls = %d, want 0", got)
	}
}

// TestScheduler_ContextCancellation verifies that cancelling the parent context
// stops the scheduler gracefully.
func TestScheduler_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scheduler := NewScheduler(&fakeRefresher{}, time.Minute, testLogger())
	scheduler.Start(ctx)

	go func() {
		for range scheduler.Results() {
		}
	}()

	cancel()

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Stop() did not complete after parent context cancellation")
	}
}

// TestScheduler_ConcurrentStartStop verifies that calling Start() and Stop()
// concurrently does not cause a race condition or panic.
func TestScheduler_ConcurrentStartStop(t *testing.T) {
	for i := 0; i < 100; i++ {
		scheduler := NewScheduler(&fakeRefresher{}, time.Minute, testLogger())

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			scheduler.Start(context.Background())
		}()
		go func() {
			defer wg.Done()
			scheduler.Stop()
		}()
		wg.Wait()

		// Start may have won the race; Stop again to guarantee shutdown
		scheduler.Stop()
		for range scheduler.Results() {
		}
	}
}
