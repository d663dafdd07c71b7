package channels

import (
	"github.com/taskmind/notifykit/pkg/notification"
)

// Scoring weights. Rates dominate, engagement and failure history correct,
// device usage nudges.
const (
	weightDeliveryRate = 0.3
	weightResponseRate = 0.3
	weightEngagement   = 0.2
	weightFailure      = 0.2
	weightDeviceBonus  = 0.2

	// failureCeiling is the failure count at which the failure term bottoms
	// out at zero.
	failureCeiling = 100

	// effectivenessBar is the threshold above which the metrics-only fallback
	// considers a channel good enough to use alongside another.
	effectivenessBar = 0.7
)

// Selector scores available channels and picks the best one for a delivery.
type Selector struct{}

// NewSelector creates a Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select returns the best channel for the user and its score.
//
// With per-channel stats available, each enabled channel is scored as
//
//	0.3·deliveryRate + 0.3·responseRate + 0.2·engagementScore
//	+ 0.2·(1 − failureCount/100) + deviceBonus
//
// where push earns 0.2·mobile usage and in-app 0.2·desktop usage. Ties go to
// the first-enumerated channel. With zero enabled channels the fallback is
// in-app with score 0. When no stats exist at all, selection degrades to the
// metrics-only comparison of per-channel effectiveness.
func (s *Selector) Select(
	cfg notification.DeliveryConfig,
	activity notification.ActivityPattern,
	metrics notification.Metrics,
	stats map[notification.Channel]notification.DeliveryStats,
) (notification.Channel, float64) {
	if len(cfg.EnabledChannels) == 0 {
		return notification.ChannelInApp, 0
	}

	if len(stats) == 0 {
		return s.fromMetrics(metrics)
	}

	best := cfg.EnabledChannels[0]
	bestScore := s.score(best, activity, stats)
	for _, ch := range cfg.EnabledChannels[1:] {
		if score := s.score(ch, activity, stats); score > bestScore {
			best = ch
			bestScore = score
		}
	}
	return best, bestScore
}

func (s *Selector) score(
	ch notification.Channel,
	activity notification.ActivityPattern,
	stats map[notification.Channel]notification.DeliveryStats,
) float64 {
	st, ok := stats[ch]
	if !ok {
		return 0
	}

	failureTerm := 1 - float64(st.FailureCount)/failureCeiling
	if failureTerm < 0 {
		failureTerm = 0
	}

	return weightDeliveryRate*st.DeliveryRate +
		weightResponseRate*st.ResponseRate +
		weightEngagement*st.EngagementScore +
		weightFailure*failureTerm +
		s.deviceBonus(ch, activity)
}

func (s *Selector) deviceBonus(ch notification.Channel, activity notification.ActivityPattern) float64 {
	switch ch {
	case notification.ChannelPush:
		return weightDeviceBonus * activity.DeviceUsage.Mobile
	case notification.ChannelInApp:
		return weightDeviceBonus * activity.DeviceUsage.Desktop
	default:
		return 0
	}
}

// fromMetrics is the reduced-information path used before any per-channel
// stats accumulate: compare fixed-decay channel effectiveness directly.
// Both channels above the bar means deliver on both; an exact tie defaults
// to push.
func (s *Selector) fromMetrics(metrics notification.Metrics) (notification.Channel, float64) {
	email := metrics.ChannelEffectiveness.Email
	push := metrics.ChannelEffectiveness.Push

	switch {
	case email > effectivenessBar && push > effectivenessBar:
		return notification.ChannelBoth, (email + push) / 2
	case email > push:
		return notification.ChannelEmail, email
	default:
		return notification.ChannelPush, push
	}
}
