package launchboard

import "time"

// State is the rendered value of one [Entity] at a point in time.
//
// State is a plain value: it holds no reference to the board and is safe to
// keep, compare, and serialize.
type State struct {
	// EntityID is the entity's unique identifier.
	EntityID string `json:"entity_id"`

	// Name is the friendly display name.
	Name string `json:"name"`

	// Kind is "binary_sensor" or "sensor".
	Kind string `json:"kind"`

	// Value is "on"/"off" for binary sensors, the text of text sensors, and
	// the reading of numeric sensors. nil when a numeric reading is missing.
	Value any `json:"state"`

	// Unit is the unit of measurement, empty for non-numeric sensors.
	Unit string `json:"unit,omitempty"`

	// Icon is the Material Design icon name.
	Icon string `json:"icon"`

	// Available is the success flag of the most recent refresh.
	Available bool `json:"available"`

	// Attributes holds extra per-entity values.
	Attributes map[string]any `json:"attributes"`

	// Device is the device the entity belongs to.
	Device Device `json:"device"`

	// UpdatedAt is when the rendered snapshot was captured. Zero before the
	// first successful refresh.
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	kindBinarySensor = "binary_sensor"
	kindSensor       = "sensor"
	stateOn          = "on"
	stateOff         = "off"
)

// renderState evaluates e into a [State].
func renderState(e Entity, capturedAt time.Time) State {
	st := State{
		EntityID:   e.UniqueID(),
		Name:       e.Name(),
		Icon:       e.Icon(),
		Available:  e.Available(),
		Attributes: e.Attributes(),
		Device:     e.Device(),
		UpdatedAt:  capturedAt,
	}

	switch v := e.(type) {
	case BinarySensor:
		st.Kind = kindBinarySensor
		st.Value = stateOff
		if v.IsOn() {
			st.Value = stateOn
		}
	case NumericSensor:
		st.Kind = kindSensor
		st.Unit = v.Unit()
		if reading, ok := v.Value(); ok {
			st.Value = reading
		}
	case TextSensor:
		st.Kind = kindSensor
		st.Value = v.Text()
	default:
		st.Kind = kindSensor
	}
	return st
}

// Status reports the refresh state of a [LaunchBoard].
type Status struct {
	// Success is the success flag of the most recent refresh attempt.
	Success bool

	// HasSnapshot is true once any refresh has succeeded.
	HasSnapshot bool

	// LastError is the error of the most recent attempt, or nil.
	LastError error

	// LastAttempt is when the most recent attempt started.
	LastAttempt time.Time

	// LastSuccess is when the current snapshot was captured.
	LastSuccess time.Time

	// Interval is the periodic refresh interval.
	Interval time.Duration
}

// RefreshResult is passed to refresh callbacks after every attempt.
type RefreshResult struct {
	// Trigger is "startup", "interval", or "request".
	Trigger string

	// Success is the cache's success flag after the attempt.
	Success bool

	// StartedAt is when the attempt began.
	StartedAt time.Time

	// Duration is how long the attempt took.
	Duration time.Duration

	// Err is the error recorded by the attempt. nil on success.
	Err error
}
