package domain

import "time"

const day = 24 * time.Hour

// CalendarDay truncates t to its calendar date in loc and returns it as
// midnight UTC, so two days can be compared without DST drift.
// A nil loc means UTC.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Both values must come from CalendarDay.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}
