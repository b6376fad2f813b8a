package launchboard

import (
	"time"

	"github.com/jpalmerr/launchboard/internal/spacex"
)

const (
	// detailsMaxRunes caps the "details" attribute of mission sensors.
	detailsMaxRunes = 255

	// speedOfSoundKPH converts km/h into Mach.
	speedOfSoundKPH = 1235

	// kmPerAU converts km into astronomical units.
	kmPerAU = 1.496e8

	unitKPH = "km/h"
	unitKM  = "km"
)

// textSensor renders one field of a launch document.
type textSensor struct {
	view
	doc    docSelector
	render func(doc spacex.Document, env *viewEnv) (string, bool)
	attrs  func(doc spacex.Document) map[string]any
}

func (s *textSensor) Text() string {
	text, ok := s.render(s.doc(s.snapshot()), s.env)
	if !ok {
		return unknownText
	}
	return text
}

func (s *textSensor) Attributes() map[string]any {
	if s.attrs == nil {
		return map[string]any{}
	}
	return s.attrs(s.doc(s.snapshot()))
}

// numericSensor renders one numeric field of the roadster document.
type numericSensor struct {
	view
	field string
	unit  string
	attrs func(doc spacex.Document) map[string]any
}

func (s *numericSensor) Value() (float64, bool) {
	return starman(s.snapshot()).Float(s.field)
}

func (s *numericSensor) Unit() string { return s.unit }

func (s *numericSensor) Attributes() map[string]any {
	return s.attrs(starman(s.snapshot()))
}

// launchSensorSet describes the per-launch text sensors shared by the
// "next" and "latest" launch documents.
type launchSensorSet struct {
	prefix string // "next_launch" or "latest_launch"
	label  string // "Next Launch" or "Latest Launch"
	doc    docSelector
}

func textSensors(env *viewEnv) []Entity {
	next := launchSensorSet{prefix: "next_launch", label: "Next Launch", doc: nextLaunch}
	latest := launchSensorSet{prefix: "latest_launch", label: "Latest Launch", doc: latestLaunch}

	sensors := []Entity{
		next.mission(env),
		next.day(env),
		next.timeOfDay(env),
		&textSensor{
			view:   launchView(env, "spacex_next_launch_countdown", "Next Launch Countdown", "mdi:clock-outline"),
			doc:    nextLaunch,
			render: renderCountdown,
		},
		next.reference(env, "site", "Site", "mdi:map-marker", "launchpad"),
		next.reference(env, "rocket", "Rocket", "mdi:rocket", "rocket"),
		next.reference(env, "payload", "Payload", "mdi:package", "payloads.0"),
		&textSensor{
			view:   launchView(env, "spacex_next_confirmed_launch_day", "Next Confirmed Launch Day", "mdi:calendar"),
			doc:    nextLaunch,
			render: confirmedOnly(renderDay),
		},
		&textSensor{
			view:   launchView(env, "spacex_next_confirmed_launch_time", "Next Confirmed Launch Time", "mdi:clock-outline"),
			doc:    nextLaunch,
			render: confirmedOnly(renderTime),
		},
		latest.mission(env),
		latest.day(env),
		latest.timeOfDay(env),
		latest.reference(env, "site", "Site", "mdi:map-marker", "launchpad"),
		latest.reference(env, "rocket", "Rocket", "mdi:rocket", "rocket"),
		latest.reference(env, "payload", "Payload", "mdi:package", "payloads.0"),
	}
	return sensors
}

func numericSensors(env *viewEnv) []Entity {
	return []Entity{
		&numericSensor{
			view: view{
				env:    env,
				id:     "spacex_starman_speed",
				name:   "Starman Speed",
				icon:   "mdi:account-star",
				device: StarmanDevice,
			},
			field: "speed_kph",
			unit:  unitKPH,
			attrs: func(doc spacex.Document) map[string]any {
				kph, _ := doc.Float("speed_kph")
				return map[string]any{"mach_speed": kph / speedOfSoundKPH}
			},
		},
		&numericSensor{
			view: view{
				env:    env,
				id:     "spacex_starman_distance",
				name:   "Starman Distance",
				icon:   "mdi:map-marker-distance",
				device: StarmanDevice,
			},
			field: "earth_distance_km",
			unit:  unitKM,
			attrs: func(doc spacex.Document) map[string]any {
				km, _ := doc.Float("earth_distance_km")
				return map[string]any{"au_distance": km / kmPerAU}
			},
		},
	}
}

func launchView(env *viewEnv, id, name, icon string) view {
	return view{env: env, id: id, name: name, icon: icon, device: LaunchDevice}
}

func (l launchSensorSet) id(suffix string) string {
	return "spacex_" + l.prefix + "_" + suffix
}

func (l launchSensorSet) mission(env *viewEnv) *textSensor {
	return &textSensor{
		view: launchView(env, l.id("mission"), l.label+" Mission", "mdi:information-outline"),
		doc:  l.doc,
		render: func(doc spacex.Document, _ *viewEnv) (string, bool) {
			return doc.String("name")
		},
		attrs: missionAttributes,
	}
}

func (l launchSensorSet) day(env *viewEnv) *textSensor {
	return &textSensor{
		view:   launchView(env, l.id("day"), l.label+" Day", "mdi:calendar"),
		doc:    l.doc,
		render: renderDay,
	}
}

func (l launchSensorSet) timeOfDay(env *viewEnv) *textSensor {
	return &textSensor{
		view:   launchView(env, l.id("time"), l.label+" Time", "mdi:clock-outline"),
		doc:    l.doc,
		render: renderTime,
	}
}

func (l launchSensorSet) reference(env *viewEnv, suffix, label, icon, field string) *textSensor {
	return &textSensor{
		view: launchView(env, l.id(suffix), l.label+" "+label, icon),
		doc:  l.doc,
		render: func(doc spacex.Document, _ *viewEnv) (string, bool) {
			return nameOrID(doc, field)
		},
	}
}

func missionAttributes(doc spacex.Document) map[string]any {
	patch, ok := doc.String("links.patch.large")
	if !ok {
		patch = "N/A"
	}
	details, ok := doc.String("details")
	if !ok {
		details = "No details available"
	}
	return map[string]any{
		"mission_patch": patch,
		"details":       truncateRunes(details, detailsMaxRunes),
	}
}

func renderDay(doc spacex.Document, env *viewEnv) (string, bool) {
	at, ok := launchTime(doc)
	if !ok {
		return "", false
	}
	return at.In(env.loc).Format(dayLayout), true
}

func renderTime(doc spacex.Document, env *viewEnv) (string, bool) {
	at, ok := launchTime(doc)
	if !ok {
		return "", false
	}
	return at.In(env.loc).Format(timeLayout), true
}

func renderCountdown(doc spacex.Document, env *viewEnv) (string, bool) {
	at, ok := launchTime(doc)
	if !ok {
		return "", false
	}
	return formatCountdown(at.Sub(env.now())), true
}

// confirmedOnly renders "TBD" unless the launch date is confirmed.
func confirmedOnly(render func(spacex.Document, *viewEnv) (string, bool)) func(spacex.Document, *viewEnv) (string, bool) {
	return func(doc spacex.Document, env *viewEnv) (string, bool) {
		if !launchConfirmed(doc, time.Time{}) {
			return tbdText, true
		}
		return render(doc, env)
	}
}
