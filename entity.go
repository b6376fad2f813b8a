package launchboard

import (
	"time"

	"github.com/jpalmerr/launchboard/internal/spacex"
	"github.com/jpalmerr/launchboard/internal/store"
)

// Domain is the integration domain used in device identifier pairs.
const Domain = "spacexha"

// Document is a single JSON object returned by the SpaceX API.
type Document = spacex.Document

// Source is the upstream data source consulted on every refresh.
// Use [WithSource] to replace the default SpaceX API client.
type Source = store.Source

// Change is delivered to subscribers after every refresh attempt.
type Change = store.Change

// Device groups related entities, in the manner of a Home Assistant device
// registry entry.
type Device struct {
	// ID is the device identifier within [Domain], e.g. "spacexlaunch".
	ID string `json:"id"`

	// Name is the display name of the device.
	Name string `json:"name"`

	// Manufacturer is always "SpaceX".
	Manufacturer string `json:"manufacturer"`

	// Model is "Launch" or "Starman".
	Model string `json:"model"`
}

// Identifiers returns the device's (domain, id) identifier pairs.
func (d Device) Identifiers() [][2]string {
	return [][2]string{{Domain, d.ID}}
}

var (
	// LaunchDevice groups the launch entities.
	LaunchDevice = Device{
		ID:           "spacexlaunch",
		Name:         "SpaceX Launches",
		Manufacturer: "SpaceX",
		Model:        "Launch",
	}

	// StarmanDevice groups the roadster telemetry entities.
	StarmanDevice = Device{
		ID:           "spacexstarman",
		Name:         "SpaceX Starman",
		Manufacturer: "SpaceX",
		Model:        "Starman",
	}
)

// Entity is a read-only view over the cached SpaceX data.
//
// Every method is a pure function of the cache's current snapshot and the
// board's clock. Views never fetch; a missing upstream field renders as a
// placeholder rather than an error.
type Entity interface {
	// UniqueID is the stable entity key, e.g. "spacex_next_launch_mission".
	UniqueID() string

	// Name is the friendly display name.
	Name() string

	// Icon is the Material Design icon, which may depend on state.
	Icon() string

	// Device is the device the entity belongs to.
	Device() Device

	// Available reports the success flag of the most recent refresh. A view
	// over a stale snapshot still renders its value but is unavailable.
	Available() bool

	// Attributes returns extra per-entity values. The map is freshly
	// allocated on every call.
	Attributes() map[string]any
}

// BinarySensor is an [Entity] with an on/off state.
type BinarySensor interface {
	Entity
	IsOn() bool
}

// TextSensor is an [Entity] with a display string.
type TextSensor interface {
	Entity
	Text() string
}

// NumericSensor is an [Entity] with a numeric value and unit.
type NumericSensor interface {
	Entity

	// Value returns the reading. ok is false when the field is missing.
	Value() (v float64, ok bool)

	// Unit is the unit of measurement, e.g. "km/h".
	Unit() string
}

// viewEnv is shared by every view of one board.
type viewEnv struct {
	reader store.Reader
	now    func() time.Time
	loc    *time.Location
}

// pinnedReader serves one fixed snapshot so a batch of views renders
// consistently even if a refresh lands mid-batch.
type pinnedReader struct {
	snapshot *store.Snapshot
	success  bool
}

func (p pinnedReader) Read() (*store.Snapshot, bool) {
	return p.snapshot, p.success
}

// view holds the metadata common to every entity.
type view struct {
	env    *viewEnv
	id     string
	name   string
	icon   string
	device Device
}

func (v *view) UniqueID() string { return v.id }
func (v *view) Name() string     { return v.name }
func (v *view) Icon() string     { return v.icon }
func (v *view) Device() Device   { return v.device }

func (v *view) Available() bool {
	_, ok := v.env.reader.Read()
	return ok
}

func (v *view) Attributes() map[string]any {
	return map[string]any{}
}

// snapshot returns the snapshot views render from, possibly nil.
func (v *view) snapshot() *store.Snapshot {
	s, _ := v.env.reader.Read()
	return s
}

// docSelector picks one document out of a snapshot.
type docSelector func(*store.Snapshot) spacex.Document

func nextLaunch(s *store.Snapshot) spacex.Document   { return s.NextLaunch() }
func latestLaunch(s *store.Snapshot) spacex.Document { return s.LatestLaunch() }
func starman(s *store.Snapshot) spacex.Document      { return s.Starman() }

// newEntities builds the full entity set over env, binary sensors first.
func newEntities(env *viewEnv) []Entity {
	entities := binarySensors(env)
	entities = append(entities, textSensors(env)...)
	entities = append(entities, numericSensors(env)...)
	return entities
}
