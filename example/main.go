package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/launchboard"
	"github.com/jpalmerr/launchboard/example/mockapi"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// mock API: next launch in 25 minutes, 10% of requests fail
	ln, err := net.Listen("tcp", "127.0.0.1:9999")
	if err != nil {
		logger.Error("failed to start mock api", "error", err)
		os.Exit(1)
	}
	mock := mockapi.New(25*time.Minute, 0.1, logger)
	go func() {
		_ = http.Serve(ln, mock.Handler())
	}()

	lb, err := launchboard.New(
		launchboard.WithBaseURL("http://"+ln.Addr().String()+"/v4"),
		launchboard.WithPollingInterval(15*time.Second),
		launchboard.WithPort(8080),
		launchboard.WithTitle("LaunchBoard Demo"),
		launchboard.WithLogger(logger),
		launchboard.WithRefreshCallback(func(r launchboard.RefreshResult) {
			if !r.Success {
				logger.Warn("refresh failed, serving stale data", "trigger", r.Trigger, "error", r.Err)
			}
		}),
	)
	if err != nil {
		logger.Error("failed to create launchboard", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  LaunchBoard Demo")
	fmt.Println()
	fmt.Println("  Open http://localhost:8080 in your browser")
	fmt.Println("  The 24 hour warning is on now; the 20 minute warning turns on in ~5 minutes.")
	fmt.Println("  About one refresh in four fails and entities go unavailable until the next one.")
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := lb.Start(ctx); err != nil {
		logger.Error("launchboard error", "error", err)
		os.Exit(1)
	}
}
