package channels

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskmind/notifykit/pkg/notification"
)

func statsFor(chs ...notification.DeliveryStats) map[notification.Channel]notification.DeliveryStats {
	m := make(map[notification.Channel]notification.DeliveryStats, len(chs))
	for _, st := range chs {
		m[st.Channel] = st
	}
	return m
}

func TestSelector_NoEnabledChannels(t *testing.T) {
	s := NewSelector()

	ch, score := s.Select(
		notification.DeliveryConfig{},
		notification.DefaultActivityPattern(),
		notification.Metrics{},
		statsFor(notification.DeliveryStats{Channel: notification.ChannelPush, DeliveryRate: 1}),
	)

	assert.Equal(t, notification.ChannelInApp, ch)
	assert.Zero(t, score)
}

func TestSelector_ScoresFromStats(t *testing.T) {
	s := NewSelector()
	cfg := notification.DeliveryConfig{
		EnabledChannels: []notification.Channel{notification.ChannelEmail, notification.ChannelPush},
	}
	activity := notification.ActivityPattern{} // no device usage, no bonuses

	t.Run("higher composite wins", func(t *testing.T) {
		stats := statsFor(
			notification.DeliveryStats{Channel: notification.ChannelEmail, DeliveryRate: 0.9, ResponseRate: 0.2},
			notification.DeliveryStats{Channel: notification.ChannelPush, DeliveryRate: 0.9, ResponseRate: 0.8},
		)

		ch, score := s.Select(cfg, activity, notification.Metrics{}, stats)
		assert.Equal(t, notification.ChannelPush, ch)
		// 0.3*0.9 + 0.3*0.8 + 0.2*0 + 0.2*1 + 0
		assert.InDelta(t, 0.71, score, 1e-9)
	})

	t.Run("failures drag a channel down", func(t *testing.T) {
		stats := statsFor(
			notification.DeliveryStats{Channel: notification.ChannelEmail, DeliveryRate: 0.9, ResponseRate: 0.9, FailureCount: 90},
			notification.DeliveryStats{Channel: notification.ChannelPush, DeliveryRate: 0.9, ResponseRate: 0.9},
		)

		ch, _ := s.Select(cfg, activity, notification.Metrics{}, stats)
		assert.Equal(t, notification.ChannelPush, ch)
	})

	t.Run("failure term bottoms out at zero", func(t *testing.T) {
		stats := statsFor(
			notification.DeliveryStats{Channel: notification.ChannelEmail, FailureCount: 250},
		)

		_, score := s.Select(notification.DeliveryConfig{
			EnabledChannels: []notification.Channel{notification.ChannelEmail},
		}, activity, notification.Metrics{}, stats)
		assert.Zero(t, score)
	})

	t.Run("tie goes to first enumerated", func(t *testing.T) {
		stats := statsFor(
			notification.DeliveryStats{Channel: notification.ChannelEmail, DeliveryRate: 0.5},
			notification.DeliveryStats{Channel: notification.ChannelPush, DeliveryRate: 0.5},
		)

		ch, _ := s.Select(cfg, activity, notification.Metrics{}, stats)
		assert.Equal(t, notification.ChannelEmail, ch)
	})

	t.Run("enabled channel without stats scores zero", func(t *testing.T) {
		stats := statsFor(
			notification.DeliveryStats{Channel: notification.ChannelEmail, DeliveryRate: 0.1},
		)

		ch, _ := s.Select(cfg, activity, notification.Metrics{}, stats)
		assert.Equal(t, notification.ChannelEmail, ch)
	})
}

func TestSelector_DeviceBonus(t *testing.T) {
	s := NewSelector()
	cfg := notification.DeliveryConfig{
		EnabledChannels: []notification.Channel{notification.ChannelPush, notification.ChannelInApp},
	}
	stats := statsFor(
		notification.DeliveryStats{Channel: notification.ChannelPush, DeliveryRate: 0.5},
		notification.DeliveryStats{Channel: notification.ChannelInApp, DeliveryRate: 0.5},
	)

	t.Run("mobile user favors push", func(t *testing.T) {
		activity := notification.ActivityPattern{
			DeviceUsage: notification.DeviceUsage{Mobile: 0.9, Desktop: 0.1},
		}
		ch, _ := s.Select(cfg, activity, notification.Metrics{}, stats)
		assert.Equal(t, notification.ChannelPush, ch)
	})

	t.Run("desktop user favors in-app", func(t *testing.T) {
		activity := notification.ActivityPattern{
			DeviceUsage: notification.DeviceUsage{Mobile: 0.1, Desktop: 0.9},
		}
		ch, _ := s.Select(cfg, activity, notification.Metrics{}, stats)
		assert.Equal(t, notification.ChannelInApp, ch)
	})
}

func TestSelector_MetricsFallback(t *testing.T) {
	s := NewSelector()
	cfg := notification.DeliveryConfig{
		EnabledChannels: []notification.Channel{notification.ChannelEmail, notification.ChannelPush},
	}
	activity := notification.DefaultActivityPattern()

	tests := []struct {
		name  string
		email float64
		push  float64
		want  notification.Channel
	}{
		{name: "both effective", email: 0.8, push: 0.75, want: notification.ChannelBoth},
		{name: "email stronger", email: 0.6, push: 0.3, want: notification.ChannelEmail},
		{name: "push stronger", email: 0.3, push: 0.6, want: notification.ChannelPush},
		{name: "exact tie defaults to push", email: 0.5, push: 0.5, want: notification.ChannelPush},
		{name: "at the bar is not above it", email: 0.7, push: 0.7, want: notification.ChannelPush},
		{name: "cold start", email: 0, push: 0, want: notification.ChannelPush},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := notification.Metrics{
				ChannelEffectiveness: notification.ChannelEffectiveness{Email: tt.email, Push: tt.push},
			}
			ch, _ := s.Select(cfg, activity, metrics, nil)
			assert.Equal(t, tt.want, ch)
		})
	}
}
