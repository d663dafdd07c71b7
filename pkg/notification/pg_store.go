package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore is the PostgreSQL-backed Store implementation. The claim step is a
// single conditional UPDATE, so concurrent scheduler instances racing for the
// same rows partition them instead of double-delivering.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore wraps an existing pgx pool. Schema is managed by the goose
// migrations under migrations/.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const notificationColumns = `id, user_id, task_id, type, status, channel, scheduled_for, sent_at, read_at, payload, created_at`

func (s *PgStore) Create(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return ErrMissingID
	}
	if n.UserID == "" {
		return ErrMissingUserID
	}

	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	_, err = s.pool.Exec(ctx, `
        INSERT INTO notifications (`+notificationColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		n.ID, n.UserID, n.TaskID, n.Type, n.Status, n.Channel,
		n.ScheduledFor, n.SentAt, n.ReadAt, payload, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *PgStore) QueryPending(ctx context.Context, before time.Time) ([]Notification, error) {
	rows, err := s.pool.Query(ctx, `
        SELECT `+notificationColumns+`
        FROM notifications
        WHERE status = $1 AND scheduled_for <= $2
        ORDER BY created_at, id`,
		StatusPending, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func (s *PgStore) Claim(ctx context.Context, ids []string) ([]Notification, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	// The WHERE status='pending' guard is the whole point: a row already
	// claimed by another run simply does not come back.
	rows, err := s.pool.Query(ctx, `
        UPDATE notifications
        SET status = $1
        WHERE id = ANY($2) AND status = $3
        RETURNING `+notificationColumns,
		StatusClaimed, ids, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to claim notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func (s *PgStore) Release(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := s.pool.Exec(ctx, `
        UPDATE notifications
        SET status = $1
        WHERE id = ANY($2) AND status = $3`,
		StatusPending, ids, StatusClaimed)
	if err != nil {
		return fmt.Errorf("failed to release notifications: %w", err)
	}
	return nil
}

func (s *PgStore) Save(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
        UPDATE notifications
        SET status = $2, channel = $3, scheduled_for = $4, sent_at = $5, read_at = $6, payload = $7
        WHERE id = $1`,
		n.ID, n.Status, n.Channel, n.ScheduledFor, n.SentAt, n.ReadAt, payload)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, n.ID)
	}
	return nil
}

func (s *PgStore) UserConfig(ctx context.Context, userID string) (DeliveryConfig, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
        SELECT config FROM user_delivery_configs WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultDeliveryConfig(), nil
	}
	if err != nil {
		return DeliveryConfig{}, fmt.Errorf("failed to load delivery config for user %s: %w", userID, err)
	}

	var cfg DeliveryConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return DeliveryConfig{}, fmt.Errorf("failed to decode delivery config for user %s: %w", userID, err)
	}
	return cfg, nil
}

func (s *PgStore) Activity(ctx context.Context, userID string) (ActivityPattern, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `
        SELECT pattern FROM user_activity_patterns WHERE user_id = $1`, userID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultActivityPattern(), nil
	}
	if err != nil {
		return ActivityPattern{}, fmt.Errorf("failed to load activity pattern for user %s: %w", userID, err)
	}

	var activity ActivityPattern
	if err := json.Unmarshal(raw, &activity); err != nil {
		return ActivityPattern{}, fmt.Errorf("failed to decode activity pattern for user %s: %w", userID, err)
	}
	return activity, nil
}

// SetUserConfig upserts a user's delivery preferences, rejecting malformed
// quiet hours at write time.
func (s *PgStore) SetUserConfig(ctx context.Context, userID string, cfg DeliveryConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery config: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
        INSERT INTO user_delivery_configs (user_id, config, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (user_id) DO UPDATE SET config = EXCLUDED.config, updated_at = now()`,
		userID, raw)
	if err != nil {
		return fmt.Errorf("failed to store delivery config for user %s: %w", userID, err)
	}
	return nil
}

// SetActivity upserts a user's activity pattern.
func (s *PgStore) SetActivity(ctx context.Context, userID string, activity ActivityPattern) error {
	if activity.QuietHours != nil {
		if err := activity.QuietHours.Validate(); err != nil {
			return err
		}
	}

	raw, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity pattern: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
        INSERT INTO user_activity_patterns (user_id, pattern, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (user_id) DO UPDATE SET pattern = EXCLUDED.pattern, updated_at = now()`,
		userID, raw)
	if err != nil {
		return fmt.Errorf("failed to store activity pattern for user %s: %w", userID, err)
	}
	return nil
}

func scanNotifications(rows pgx.Rows) ([]Notification, error) {
	var notifications []Notification
	for rows.Next() {
		var (
			n       Notification
			payload []byte
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Type, &n.Status, &n.Channel,
			&n.ScheduledFor, &n.SentAt, &n.ReadAt, &payload, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if err := json.Unmarshal(payload, &n.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode payload for notification %s: %w", n.ID, err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read notifications: %w", err)
	}
	return notifications, nil
}
