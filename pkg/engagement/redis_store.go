package engagement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/taskmind/notifykit/pkg/notification"
)

// RedisStatsStore persists engagement aggregates in Redis as JSON values.
// Keys: notifykit:stats:<user>:<channel> and notifykit:metrics:<user>.
//
// Redis suits these aggregates: they are small, per-user, rewritten on every
// delivery, and losing them only resets moving averages. The caller still owns
// the single-writer-per-user invariant; this store does plain read-modify-write.
type RedisStatsStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisStatsStoreOption configures a RedisStatsStore.
type RedisStatsStoreOption func(*RedisStatsStore)

// WithKeyPrefix overrides the default "notifykit" key namespace.
func WithKeyPrefix(prefix string) RedisStatsStoreOption {
	return func(s *RedisStatsStore) {
		if prefix != "" {
			s.keyPrefix = prefix
		}
	}
}

// NewRedisStatsStore wraps an existing Redis client.
func NewRedisStatsStore(client *redis.Client, opts ...RedisStatsStoreOption) *RedisStatsStore {
	s := &RedisStatsStore{
		client:    client,
		keyPrefix: "notifykit",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) statsKey(userID string, ch notification.Channel) string {
	return fmt.Sprintf("%s:stats:%s:%s", s.keyPrefix, userID, ch)
}

func (s *RedisStatsStore) metricsKey(userID string) string {
	return fmt.Sprintf("%s:metrics:%s", s.keyPrefix, userID)
}

func (s *RedisStatsStore) Stats(ctx context.Context, userID string, ch notification.Channel) (notification.DeliveryStats, error) {
	raw, err := s.client.Get(ctx, s.statsKey(userID, ch)).Bytes()
	if errors.Is(err, redis.Nil) {
		return notification.DeliveryStats{UserID: userID, Channel: ch}, nil
	}
	if err != nil {
		return notification.DeliveryStats{}, fmt.Errorf("failed to load delivery stats for user %s channel %s: %w", userID, ch, err)
	}

	var stats notification.DeliveryStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return notification.DeliveryStats{}, fmt.Errorf("failed to decode delivery stats for user %s channel %s: %w", userID, ch, err)
	}
	return stats, nil
}

func (s *RedisStatsStore) SaveStats(ctx context.Context, stats notification.DeliveryStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery stats: %w", err)
	}
	if err := s.client.Set(ctx, s.statsKey(stats.UserID, stats.Channel), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store delivery stats for user %s channel %s: %w", stats.UserID, stats.Channel, err)
	}
	return nil
}

func (s *RedisStatsStore) Metrics(ctx context.Context, userID string) (notification.Metrics, error) {
	raw, err := s.client.Get(ctx, s.metricsKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return notification.Metrics{UserID: userID}, nil
	}
	if err != nil {
		return notification.Metrics{}, fmt.Errorf("failed to load metrics for user %s: %w", userID, err)
	}

	var metrics notification.Metrics
	if err := json.Unmarshal(raw, &metrics); err != nil {
		return notification.Metrics{}, fmt.Errorf("failed to decode metrics for user %s: %w", userID, err)
	}
	return metrics, nil
}

func (s *RedisStatsStore) SaveMetrics(ctx context.Context, metrics notification.Metrics) error {
	raw, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}
	if err := s.client.Set(ctx, s.metricsKey(metrics.UserID), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store metrics for user %s: %w", metrics.UserID, err)
	}
	return nil
}
