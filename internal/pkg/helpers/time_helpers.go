package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// StartOfDay returns midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// DateWindow returns the half-open [start, end) range of a relative date filter.
// ok is false for unknown window names.
func DateWindow(name string, now time.Time, loc *time.Location) (start, end time.Time, ok bool) {
	today := StartOfDay(now, loc)

	switch name {
	case "today":
		return today, today.AddDate(0, 0, 1), true
	case "tomorrow":
		return today.AddDate(0, 0, 1), today.AddDate(0, 0, 2), true
	case "week":
		return today, today.AddDate(0, 0, 7), true
	case "month":
		return today, today.AddDate(0, 1, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}
