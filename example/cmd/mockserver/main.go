// Standalone mock SpaceX API for testing the CLI.
//
// Usage:
//
//	go run ./example/cmd/mockserver
//
// Then in another terminal:
//
//	LAUNCHBOARD_API__BASE_URL=http://localhost:9999/v4 go run ./cmd/launchboard serve
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jpalmerr/launchboard/example/mockapi"
)

func main() {
	addr := flag.String("addr", ":9999", "listen address")
	lead := flag.Duration("lead", 25*time.Minute, "time until the simulated next launch")
	failures := flag.Float64("failure-rate", 0.1, "share of requests answered with 503")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	fmt.Printf("Mock SpaceX API starting on %s\n", *addr)
	fmt.Printf("Next launch in %s, %.0f%% of requests fail\n", *lead, *failures*100)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	srv := mockapi.New(*lead, *failures, logger)
	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
