// Package progression holds the pure rules for daily streaks and level
// placement. Nothing here touches storage or clocks; callers pass calendar
// days already resolved in the program timezone.
package progression

import (
	"time"

	id "impulsa/pkg/domain"
)

// UpdateStreak advances a streak for activity on today. last and today are
// calendar days as produced by domain.CalendarDay.
//
//	no prior activity  -> 1
//	same day           -> unchanged
//	consecutive day    -> +1
//	gap of 2+ days     -> reset to 1
//
// A today earlier than last (clock skew) leaves the streak unchanged.
func UpdateStreak(current, best int, last *time.Time, today time.Time) (newCurrent, newBest int) {
	if last == nil {
		return 1, max(best, 1)
	}
	newCurrent = current
	switch diff := id.DaysBetween(*last, today); {
	case diff == 1:
		newCurrent = current + 1
	case diff >= 2:
		newCurrent = 1
	}
	return newCurrent, max(best, newCurrent)
}
