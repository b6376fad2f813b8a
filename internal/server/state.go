package server

import (
	"time"

	"github.com/jpalmerr/launchboard/internal/store"
)

// EntityState is the JSON representation of one rendered entity.
type EntityState struct {
	// EntityID is the entity's unique identifier, e.g. "spacex_starman_speed".
	EntityID string `json:"entity_id"`

	// Name is the friendly display name.
	Name string `json:"name"`

	// Kind is "binary_sensor" or "sensor".
	Kind string `json:"kind"`

	// State is the rendered value: "on"/"off", a string, a number, or null.
	State any `json:"state"`

	// Unit is the unit of measurement for numeric sensors.
	Unit string `json:"unit,omitempty"`

	// Icon is the Material Design icon name, e.g. "mdi:rocket".
	Icon string `json:"icon"`

	// Available mirrors the cache's success flag at render time.
	Available bool `json:"available"`

	// Attributes holds extra per-entity values.
	Attributes map[string]any `json:"attributes"`

	// Device groups related entities.
	Device Device `json:"device"`

	// UpdatedAt is when the rendered snapshot was captured (zero if none).
	UpdatedAt time.Time `json:"updated_at"`
}

// Device describes the device an entity is grouped under.
type Device struct {
	Identifiers  [][2]string `json:"identifiers"`
	Name         string      `json:"name"`
	Manufacturer string      `json:"manufacturer"`
	Model        string      `json:"model"`
}

// StatusResponse is the body served at "/api/status".
type StatusResponse struct {
	store.Status

	// IntervalSeconds is the periodic refresh interval.
	IntervalSeconds float64 `json:"interval_seconds"`
}

// Board is what the server renders. It is implemented by the LaunchBoard
// orchestrator.
type Board interface {
	// States renders every entity against the current snapshot.
	States() []EntityState

	// Status returns the cache status.
	Status() StatusResponse

	// RequestRefresh asks for an on-demand refresh. It returns false if a
	// request was already pending.
	RequestRefresh() bool

	// Subscribe returns a channel that receives a value after every refresh.
	// Caller must call Unsubscribe when done.
	Subscribe() <-chan store.Change

	// Unsubscribe removes a subscription and closes the channel.
	Unsubscribe(ch <-chan store.Change)
}
