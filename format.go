package launchboard

import (
	"fmt"
	"math"
	"time"

	"github.com/jpalmerr/launchboard/internal/spacex"
)

const (
	// unknownText is rendered when a text field is missing upstream.
	unknownText = "Unknown"

	// tbdText is rendered by the confirmed-launch sensors while the date is
	// still to be determined.
	tbdText = "TBD"

	dayLayout  = "02-Jan-2006"
	timeLayout = "15:04"
)

// launchTime reads "date_unix" as an instant.
func launchTime(launch spacex.Document) (time.Time, bool) {
	unix, ok := launch.Float("date_unix")
	if !ok || math.IsNaN(unix) || math.IsInf(unix, 0) {
		return time.Time{}, false
	}
	sec, frac := math.Modf(unix)
	return time.Unix(int64(sec), int64(frac*1e9)), true
}

// formatCountdown renders d as "Dd HH:MM:SS", clamped at zero.
func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%dd %02d:%02d:%02d", days, hours, minutes, seconds)
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// nameOrID reads "<field>.name" from a populated reference and falls back to
// the raw string id when the reference was not populated.
func nameOrID(doc spacex.Document, field string) (string, bool) {
	if name, ok := doc.String(field + ".name"); ok {
		return name, true
	}
	return doc.String(field)
}
