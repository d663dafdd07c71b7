package notification

import (
	"fmt"
	"time"
)

// QuietHours is a wall-clock window during which nothing is delivered. The
// window always wraps midnight: Start is the evening hour the window opens and
// End the morning hour it closes, so containment is hour >= Start OR hour < End.
type QuietHours struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the local hour falls inside the quiet window.
func (q QuietHours) Contains(hour int) bool {
	return hour >= q.Start || hour < q.End
}

// Validate rejects malformed windows at configuration-write time so the
// scheduler never has to deal with them. A non-wrapping window (start <= end)
// would make Contains match every hour of the day.
func (q QuietHours) Validate() error {
	if q.Start < 0 || q.Start > 23 || q.End < 0 || q.End > 23 {
		return fmt.Errorf("%w: start=%d end=%d", ErrInvalidHour, q.Start, q.End)
	}
	if q.Start <= q.End {
		return fmt.Errorf("%w: start=%d end=%d", ErrInvalidQuietHours, q.Start, q.End)
	}
	return nil
}

// DeviceAvailability records which device classes a user has registered.
type DeviceAvailability struct {
	Desktop bool `json:"desktop"`
	Mobile  bool `json:"mobile"`
}

// DeliveryConfig is a user's delivery preferences.
type DeliveryConfig struct {
	PreferredChannel   Channel            `json:"preferred_channel"`
	EnabledChannels    []Channel          `json:"enabled_channels"`
	QuietHours         *QuietHours        `json:"quiet_hours,omitempty"`
	DeviceAvailability DeviceAvailability `json:"device_availability"`
}

// Validate checks the config before it is written to storage.
func (c DeliveryConfig) Validate() error {
	for _, ch := range c.EnabledChannels {
		switch ch {
		case ChannelEmail, ChannelPush, ChannelInApp:
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedChannel, ch)
		}
	}
	if c.QuietHours != nil {
		if err := c.QuietHours.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDeliveryConfig is used when a user never stored preferences.
func DefaultDeliveryConfig() DeliveryConfig {
	return DeliveryConfig{
		PreferredChannel: ChannelPush,
		EnabledChannels:  []Channel{ChannelEmail, ChannelPush},
		DeviceAvailability: DeviceAvailability{
			Desktop: true,
			Mobile:  true,
		},
	}
}

// DeviceUsage holds the observed share of user activity per device class,
// each in [0,1]. The channel selector turns these into score bonuses.
type DeviceUsage struct {
	Desktop float64 `json:"desktop"`
	Mobile  float64 `json:"mobile"`
}

// ActivityPattern describes when and where a user is reachable.
type ActivityPattern struct {
	ActiveHours []int       `json:"active_hours"`
	DeviceUsage DeviceUsage `json:"device_usage"`
	TimeZone    string      `json:"time_zone"`
	QuietHours  *QuietHours `json:"quiet_hours,omitempty"`
}

// Location resolves the user's time zone, falling back to UTC when the zone is
// unset or unknown so time math stays total.
func (a ActivityPattern) Location() *time.Location {
	if a.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(a.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsActiveHour reports whether the given local hour is one the user is
// typically active in.
func (a ActivityPattern) IsActiveHour(hour int) bool {
	for _, h := range a.ActiveHours {
		if h == hour {
			return true
		}
	}
	return false
}

// DefaultActivityPattern assumes a 9-to-5 desktop user in UTC.
func DefaultActivityPattern() ActivityPattern {
	return ActivityPattern{
		ActiveHours: []int{9, 10, 11, 12, 13, 14, 15, 16, 17},
		DeviceUsage: DeviceUsage{Desktop: 0.5, Mobile: 0.5},
		TimeZone:    "UTC",
	}
}

// ChannelEffectiveness holds per-channel fixed-decay effectiveness averages.
type ChannelEffectiveness struct {
	Email float64 `json:"email"`
	Push  float64 `json:"push"`
}

// Metrics is the per-user engagement aggregate maintained with the
// fixed-decay moving average (0.9 old + 0.1 sample).
type Metrics struct {
	UserID               string               `json:"user_id"`
	ReadRate             float64              `json:"read_rate"`
	ResponseTimeMs       float64              `json:"response_time_ms"`
	ChannelEffectiveness ChannelEffectiveness `json:"channel_effectiveness"`
}

// DeliveryStats is the per-user, per-channel aggregate maintained with the
// windowed moving average over the last N deliveries. FailureCount is a plain
// counter: it only ever grows unless failure decay is explicitly enabled on
// the tracker.
type DeliveryStats struct {
	UserID          string  `json:"user_id"`
	Channel         Channel `json:"channel"`
	DeliveryRate    float64 `json:"delivery_rate"`
	ResponseRate    float64 `json:"response_rate"`
	EngagementScore float64 `json:"engagement_score"`
	FailureCount    int     `json:"failure_count"`
}
