package engagement

import (
	"context"

	"github.com/taskmind/notifykit/pkg/notification"
)

// StatsStore persists the engagement aggregates. Loads return zero-valued
// aggregates (with identifiers filled in) when nothing was recorded yet, so
// callers never special-case first contact.
type StatsStore interface {
	// Stats loads the per-channel delivery stats for a user.
	Stats(ctx context.Context, userID string, ch notification.Channel) (notification.DeliveryStats, error)

	// SaveStats persists updated delivery stats.
	SaveStats(ctx context.Context, stats notification.DeliveryStats) error

	// Metrics loads the per-user engagement metrics.
	Metrics(ctx context.Context, userID string) (notification.Metrics, error)

	// SaveMetrics persists updated metrics.
	SaveMetrics(ctx context.Context, metrics notification.Metrics) error
}
