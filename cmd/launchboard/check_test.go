package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newSpaceXServer serves fixed roadster and launch documents under /v4.
func newSpaceXServer(t *testing.T) *httptest.Server {
	t.Helper()

	next := time.Now().Add(48 * time.Hour).Unix()
	docs := map[string]string{
		"/v4/roadster":        `{"id":"5eae2b9e","speed_kph":12350,"earth_distance_km":149600000}`,
		"/v4/launches/next":   `{"id":"l-next","name":"Crew-9","date_unix":` + jsonInt(next) + `,"tbd":false}`,
		"/v4/launches/latest": `{"id":"l-latest","name":"Starlink 10-1","date_unix":1700000000}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func TestRunCheck_Reachable(t *testing.T) {
	srv := newSpaceXServer(t)
	t.Setenv("LAUNCHBOARD_API__BASE_URL", srv.URL+"/v4")
	t.Setenv("LAUNCHBOARD_LOG_LEVEL", "error")

	output, err := executeCmd(t, "check")
	if err != nil {
		t.Fatalf("check command error = %v", err)
	}
	if !strings.Contains(output, "SpaceX API is reachable") {
		t.Errorf("output = %q, want reachable message", output)
	}
}

func TestRunCheck_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	t.Setenv("LAUNCHBOARD_API__BASE_URL", srv.URL+"/v4")
	t.Setenv("LAUNCHBOARD_LOG_LEVEL", "error")

	_, err := executeCmd(t, "check")
	if err == nil {
		t.Fatal("check command expected error, got nil")
	}
	if !strings.Contains(err.Error(), "api check failed") {
		t.Errorf("error = %q, want to contain 'api check failed'", err.Error())
	}
}

func TestRunStates_PrintsAllEntities(t *testing.T) {
	srv := newSpaceXServer(t)
	t.Setenv("LAUNCHBOARD_API__BASE_URL", srv.URL+"/v4")
	t.Setenv("LAUNCHBOARD_LOG_LEVEL", "error")

	output, err := executeCmd(t, "states")
	if err != nil {
		t.Fatalf("states command error = %v", err)
	}

	var states []map[string]any
	if err := json.Unmarshal([]byte(output), &states); err != nil {
		t.Fatalf("output is not a JSON array: %v\nGot: %s", err, output)
	}
	if len(states) != 20 {
		t.Fatalf("len(states) = %d, want 20", len(states))
	}

	byID := make(map[string]map[string]any, len(states))
	for _, st := range states {
		id, _ := st["entity_id"].(string)
		byID[id] = st
	}

	mission, ok := byID["spacex_next_launch_mission"]
	if !ok {
		t.Fatal("spacex_next_launch_mission missing from output")
	}
	if mission["state"] != "Crew-9" {
		t.Errorf("next mission state = %v, want Crew-9", mission["state"])
	}
	if mission["available"] != true {
		t.Errorf("next mission available = %v, want true", mission["available"])
	}

	speed, ok := byID["spacex_starman_speed"]
	if !ok {
		t.Fatal("spacex_starman_speed missing from output")
	}
	if speed["state"] != float64(12350) {
		t.Errorf("starman speed state = %v, want 12350", speed["state"])
	}
}

func TestRunStates_RefreshFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	t.Setenv("LAUNCHBOARD_API__BASE_URL", srv.URL+"/v4")
	t.Setenv("LAUNCHBOARD_LOG_LEVEL", "error")

	_, err := executeCmd(t, "states")
	if err == nil {
		t.Fatal("states command expected error, got nil")
	}
	if !strings.Contains(err.Error(), "refresh failed") {
		t.Errorf("error = %q, want to contain 'refresh failed'", err.Error())
	}
}
