package launchboard

import (
	"time"

	"github.com/jpalmerr/launchboard/internal/spacex"
)

const (
	// window24Hours is the look-ahead of the 24 hour launch warning.
	window24Hours = 24 * time.Hour

	// window20Minutes is the look-ahead of the 20 minute launch warning.
	window20Minutes = 20 * time.Minute
)

// binarySensor evaluates a predicate over the next launch document.
type binarySensor struct {
	view
	on func(launch spacex.Document, now time.Time) bool

	// offIcon replaces the icon while the sensor is off, if set.
	offIcon string
}

func (b *binarySensor) IsOn() bool {
	return b.on(nextLaunch(b.snapshot()), b.env.now())
}

func (b *binarySensor) Icon() string {
	if b.offIcon != "" && !b.IsOn() {
		return b.offIcon
	}
	return b.icon
}

func binarySensors(env *viewEnv) []Entity {
	return []Entity{
		&binarySensor{
			view: view{
				env:    env,
				id:     "spacex_next_launch_confirmed",
				name:   "Next Launch Confirmed",
				icon:   "mdi:check-circle",
				device: LaunchDevice,
			},
			on:      launchConfirmed,
			offIcon: "mdi:do-not-disturb",
		},
		&binarySensor{
			view: view{
				env:    env,
				id:     "spacex_launch_24_hour_warning",
				name:   "Launch within 24 Hours",
				icon:   "mdi:rocket",
				device: LaunchDevice,
			},
			on: launchWithin(window24Hours),
		},
		&binarySensor{
			view: view{
				env:    env,
				id:     "spacex_launch_20_minute_warning",
				name:   "Launch within 20 Minutes",
				icon:   "mdi:rocket-launch",
				device: LaunchDevice,
			},
			on: launchWithin(window20Minutes),
		},
	}
}

// launchConfirmed is true when the launch date is no longer "to be
// determined". A missing tbd flag counts as undetermined.
func launchConfirmed(launch spacex.Document, _ time.Time) bool {
	tbd, ok := launch.Bool("tbd")
	return ok && !tbd
}

// launchWithin returns a predicate that is true iff the launch time lies
// strictly between now and now+window.
func launchWithin(window time.Duration) func(spacex.Document, time.Time) bool {
	return func(launch spacex.Document, now time.Time) bool {
		at, ok := launchTime(launch)
		if !ok {
			return false
		}
		return now.Before(at) && at.Before(now.Add(window))
	}
}
