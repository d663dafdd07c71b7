package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmind/notifykit/pkg/notification"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func TestOptimalTime_QuietHours(t *testing.T) {
	quiet := &notification.QuietHours{Start: 22, End: 8}
	// Hour 8 is active so the quiet-end boundary is observed in isolation.
	activity := notification.ActivityPattern{ActiveHours: []int{8, 12}}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "late evening pushes to morning", now: at(23, 15), want: at(8, 0).AddDate(0, 0, 1)},
		{name: "early morning pushes to same morning", now: at(5, 30), want: at(8, 0)},
		{name: "quiet start boundary is quiet", now: at(22, 0), want: at(8, 0).AddDate(0, 0, 1)},
		{name: "quiet end boundary delivers now", now: at(8, 0), want: at(8, 0)},
		{name: "midday untouched", now: at(12, 0), want: at(12, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OptimalTime(activity, quiet, tt.now)
			assert.Equal(t, tt.want, got)
			assert.False(t, got.Before(tt.now), "never schedules into the past")
		})
	}
}

func TestOptimalTime_ActiveHours(t *testing.T) {
	activity := notification.ActivityPattern{ActiveHours: []int{9, 12, 17}}

	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{name: "before first active hour", now: at(7, 45), want: at(9, 0)},
		{name: "inside active hour delivers now", now: at(12, 30), want: at(12, 30)},
		{name: "between active hours", now: at(14, 0), want: at(17, 0)},
		{name: "after last active hour wraps to next day", now: at(18, 10), want: at(9, 0).AddDate(0, 0, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OptimalTime(activity, nil, tt.now))
		})
	}

	t.Run("no active hours means always active", func(t *testing.T) {
		now := at(3, 0)
		assert.Equal(t, now, OptimalTime(notification.ActivityPattern{}, nil, now))
	})

	t.Run("unsorted active hours", func(t *testing.T) {
		scrambled := notification.ActivityPattern{ActiveHours: []int{17, 9, 12}}
		assert.Equal(t, at(9, 0), OptimalTime(scrambled, nil, at(7, 0)))
	})
}

func TestOptimalTime_QuietBeatsActive(t *testing.T) {
	// Hour 23 is both active and quiet; quiet hours win.
	activity := notification.ActivityPattern{ActiveHours: []int{23}}
	quiet := &notification.QuietHours{Start: 22, End: 8}

	got := OptimalTime(activity, quiet, at(23, 0))
	assert.Equal(t, at(8, 0).AddDate(0, 0, 1), got)
}

func TestOptimalTime_Timezone(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	activity := notification.ActivityPattern{TimeZone: "Europe/Berlin"}
	quiet := &notification.QuietHours{Start: 22, End: 8}

	// 21:30 UTC is 22:30 in Berlin (CET, March 10): inside quiet hours.
	now := time.Date(2025, 3, 10, 21, 30, 0, 0, time.UTC)
	got := OptimalTime(activity, quiet, now)

	want := time.Date(2025, 3, 11, 8, 0, 0, 0, berlin)
	assert.True(t, got.Equal(want), "got %v, want %v", got, want)
}

func TestOptimalTime_Converges(t *testing.T) {
	activity := notification.ActivityPattern{ActiveHours: []int{10}, TimeZone: "UTC"}
	quiet := &notification.QuietHours{Start: 22, End: 8}

	current := at(23, 59)
	for range 24 {
		next := OptimalTime(activity, quiet, current)
		if next.Equal(current) {
			return
		}
		require.True(t, next.After(current), "each step must move forward")
		current = next
	}

	assert.Equal(t, current, OptimalTime(activity, quiet, current), "must reach a fixed point within 24 steps")
}
