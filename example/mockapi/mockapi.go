// Package mockapi serves a small simulated SpaceX v4 API for demos.
//
// The next launch is scheduled a fixed lead time after the server starts, so
// the 24 hour and 20 minute warnings flip while the demo runs. Starman's
// speed and distance drift on every request. When a failure rate is set,
// that share of requests fails with 503 so the dashboard shows stale data.
package mockapi

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// Server is a simulated SpaceX API.
type Server struct {
	mu          sync.Mutex
	launchAt    time.Time
	started     time.Time
	failureRate float64
	logger      *slog.Logger
}

// New returns a Server whose next launch is lead after now.
func New(lead time.Duration, failureRate float64, logger *slog.Logger) *Server {
	now := time.Now()
	return &Server{
		launchAt:    now.Add(lead),
		started:     now,
		failureRate: failureRate,
		logger:      logger,
	}
}

// Handler returns the API routes rooted at /v4.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v4/roadster", s.handleRoadster)
	mux.HandleFunc("GET /v4/launches/next", s.handleNext)
	mux.HandleFunc("GET /v4/launches/latest", s.handleLatest)
	return mux
}

func (s *Server) handleRoadster(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	elapsed := time.Since(s.started).Seconds()
	s.write(w, map[string]any{
		"id":                "5eae2b9e",
		"name":              "Elon Musk's Tesla Roadster",
		"speed_kph":         11850 + 40*rand.Float64(),
		"earth_distance_km": 3.2e8 + elapsed*3.3,
		"details":           "Demo roadster telemetry",
	})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	s.mu.Lock()
	launchAt := s.launchAt
	s.mu.Unlock()

	s.write(w, map[string]any{
		"id":        "demo-next",
		"name":      "Demo Mission 2",
		"date_unix": launchAt.Unix(),
		"tbd":       false,
		"details":   "Simulated launch scheduled shortly after the demo starts.",
		"launchpad": map[string]any{"id": "pad-39a", "name": "KSC LC 39A"},
		"rocket":    map[string]any{"id": "falcon9", "name": "Falcon 9"},
		"payloads":  []any{map[string]any{"id": "pl-1", "name": "Demo Satellite"}},
		"links": map[string]any{
			"patch": map[string]any{"small": "https://images2.imgbox.com/placeholder.png"},
		},
	})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	if s.fail(w, r) {
		return
	}
	s.write(w, map[string]any{
		"id":        "demo-latest",
		"name":      "Demo Mission 1",
		"date_unix": s.started.Add(-72 * time.Hour).Unix(),
		"launchpad": "pad-40",
		"rocket":    map[string]any{"id": "falcon9", "name": "Falcon 9"},
		"payloads":  []any{"pl-0"},
	})
}

// fail answers 503 for a share of requests.
func (s *Server) fail(w http.ResponseWriter, r *http.Request) bool {
	if s.failureRate <= 0 || rand.Float64() >= s.failureRate {
		return false
	}
	s.logger.Info("injecting failure", "path", r.URL.Path)
	http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	return true
}

func (s *Server) write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
