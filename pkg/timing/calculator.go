package timing

import (
	"sort"
	"time"

	"github.com/taskmind/notifykit/pkg/notification"
)

// OptimalTime returns the earliest instant at or after now a notification may
// be delivered to the user:
//
//  1. Inside quiet hours, delivery moves to the hour the quiet window closes,
//     today or tomorrow, whichever is the first instant strictly after now.
//  2. Outside the user's active hours, delivery moves to the next active hour,
//     wrapping to the first active hour of the next day when none is left.
//  3. Otherwise the optimal time is now: deliver immediately.
//
// Quiet hours take precedence over active hours. The function is total: for a
// non-empty set of active hours it always yields a present-or-future instant,
// and repeated application converges to "deliver now" within 24 iterations.
func OptimalTime(activity notification.ActivityPattern, quiet *notification.QuietHours, now time.Time) time.Time {
	loc := activity.Location()
	local := now.In(loc)
	hour := local.Hour()

	if quiet != nil && quiet.Contains(hour) {
		end := time.Date(local.Year(), local.Month(), local.Day(), quiet.End, 0, 0, 0, loc)
		if !end.After(now) {
			end = end.AddDate(0, 0, 1)
		}
		return end
	}

	if len(activity.ActiveHours) == 0 || activity.IsActiveHour(hour) {
		return now
	}

	next, wrapped := nextActiveHour(activity.ActiveHours, hour)
	at := time.Date(local.Year(), local.Month(), local.Day(), next, 0, 0, 0, loc)
	if wrapped {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// nextActiveHour returns the smallest active hour strictly after the given
// hour, or the smallest active hour overall with wrapped=true when the day is
// exhausted.
func nextActiveHour(activeHours []int, after int) (hour int, wrapped bool) {
	hours := make([]int, len(activeHours))
	copy(hours, activeHours)
	sort.Ints(hours)

	for _, h := range hours {
		if h > after {
			return h, false
		}
	}
	return hours[0], true
}
