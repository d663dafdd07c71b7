package engagement

import (
	"time"

	"github.com/taskmind/notifykit/pkg/notification"
)

// EngagementType describes how a user interacted with a delivered
// notification.
type EngagementType string

const (
	EngagementNone      EngagementType = ""
	EngagementOpened    EngagementType = "opened"
	EngagementClicked   EngagementType = "clicked"
	EngagementDismissed EngagementType = "dismissed"
)

// score maps an interaction to the sample fed into the engagement average.
func (e EngagementType) score() float64 {
	switch e {
	case EngagementClicked:
		return 1.0
	case EngagementOpened:
		return 0.6
	case EngagementDismissed:
		return 0.1
	default:
		return 0
	}
}

// Outcome is the result of one delivery attempt on one channel.
type Outcome struct {
	Success      bool
	Engagement   EngagementType
	ResponseTime time.Duration
}

const (
	// defaultWindowSize is the N of the windowed moving average.
	defaultWindowSize = 100

	// Fixed-decay weights for the Metrics aggregate.
	decayOld    = 0.9
	decaySample = 0.1
)

// Tracker applies the two moving-average schemes. The zero value is not
// usable; construct with NewTracker.
type Tracker struct {
	windowSize   int
	failureDecay bool
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithWindowSize overrides the windowed-average horizon.
func WithWindowSize(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.windowSize = n
		}
	}
}

// WithFailureDecay applies the windowed treatment to FailureCount instead of
// letting it grow forever. Off by default: the unbounded counter is the
// historical behavior, and flipping it silently would shift channel scores.
func WithFailureDecay() TrackerOption {
	return func(t *Tracker) {
		t.failureDecay = true
	}
}

// NewTracker creates a Tracker with the default 100-delivery window.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{windowSize: defaultWindowSize}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordDelivery folds one delivery outcome into the per-channel stats and
// returns the updated copy. All rates use the windowed average, so they stay
// in [0,1] for samples in [0,1].
func (t *Tracker) RecordDelivery(stats notification.DeliveryStats, outcome Outcome) notification.DeliveryStats {
	stats.DeliveryRate = t.windowed(stats.DeliveryRate, boolSample(outcome.Success))
	stats.ResponseRate = t.windowed(stats.ResponseRate, boolSample(outcome.Engagement != EngagementNone))
	stats.EngagementScore = t.windowed(stats.EngagementScore, outcome.Engagement.score())

	if !outcome.Success {
		stats.FailureCount++
	} else if t.failureDecay && stats.FailureCount > 0 {
		// Windowed decay expressed on the integer counter: shave one failure
		// for every full window of successes, never below zero.
		decayed := float64(stats.FailureCount) * float64(t.windowSize-1) / float64(t.windowSize)
		stats.FailureCount = int(decayed)
	}

	return stats
}

// RecordOutcome folds a finished notification into the per-user Metrics and
// returns the updated copy. Uses the fixed-decay average.
func (t *Tracker) RecordOutcome(metrics notification.Metrics, n notification.Notification) notification.Metrics {
	read := n.Status == notification.StatusRead
	metrics.ReadRate = decayed(metrics.ReadRate, boolSample(read))

	if read && n.ReadAt != nil && n.SentAt != nil && n.ReadAt.After(*n.SentAt) {
		sample := float64(n.ReadAt.Sub(*n.SentAt).Milliseconds())
		metrics.ResponseTimeMs = decayed(metrics.ResponseTimeMs, sample)
	}

	sample := boolSample(read)
	for _, ch := range n.Channel.Resolve() {
		switch ch {
		case notification.ChannelEmail:
			metrics.ChannelEffectiveness.Email = decayed(metrics.ChannelEffectiveness.Email, sample)
		case notification.ChannelPush:
			metrics.ChannelEffectiveness.Push = decayed(metrics.ChannelEffectiveness.Push, sample)
		}
	}

	return metrics
}

func (t *Tracker) windowed(old, sample float64) float64 {
	n := float64(t.windowSize)
	return (old*(n-1) + sample) / n
}

func decayed(old, sample float64) float64 {
	return old*decayOld + sample*decaySample
}

func boolSample(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
