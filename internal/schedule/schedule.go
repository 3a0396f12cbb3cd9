// Package schedule implements the fetch window gate.
package schedule

import (
	"time"

	"github.com/jonnyd55/wmata-commute-helper/internal/models"
)

// Allowed reports whether fetching may proceed at the given instant. A nil
// schedule means always-on. The window is half-open [start, stop) compared
// on same-day time-of-day values, so an overnight window (stop earlier than
// start, e.g. 22:00-06:00) never matches. That limitation is part of the
// widget contract and is kept as-is.
func Allowed(s *models.Schedule, now time.Time) bool {
	if s == nil {
		return true
	}

	day := int(now.Weekday())
	active := false
	for _, d := range s.Days {
		if d == day {
			active = true
			break
		}
	}
	if !active {
		return false
	}

	start, ok := minuteOfDay(s.Start)
	if !ok {
		return false
	}
	stop, ok := minuteOfDay(s.Stop)
	if !ok {
		return false
	}

	cur := now.Hour()*60 + now.Minute()
	return cur >= start && cur < stop
}

// minuteOfDay converts an "HH:mm" value to minutes since midnight. An
// unparseable value closes the window rather than failing the cycle.
func minuteOfDay(v string) (int, bool) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
