package notification

import (
	"context"
	"time"
)

// Store handles notification persistence and the per-user configuration the
// scheduler needs to make delivery decisions.
type Store interface {
	// Create inserts a new pending notification.
	Create(ctx context.Context, n Notification) error

	// QueryPending returns pending notifications whose ScheduledFor is at or
	// before the given instant.
	QueryPending(ctx context.Context, before time.Time) ([]Notification, error)

	// Claim atomically transitions the given pending notifications to the
	// claimed marker and returns the ones actually claimed. Rows already
	// claimed by a concurrent run are silently skipped, never an error.
	Claim(ctx context.Context, ids []string) ([]Notification, error)

	// Release returns claimed notifications to pending, e.g. when a unit is
	// rescheduled or its processing failed before delivery.
	Release(ctx context.Context, ids []string) error

	// Save persists the current state of a notification.
	Save(ctx context.Context, n Notification) error

	// UserConfig loads a user's delivery preferences, falling back to
	// DefaultDeliveryConfig when none were stored.
	UserConfig(ctx context.Context, userID string) (DeliveryConfig, error)

	// Activity loads a user's activity pattern, falling back to
	// DefaultActivityPattern when none was recorded.
	Activity(ctx context.Context, userID string) (ActivityPattern, error)
}
