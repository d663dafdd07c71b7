package engagement

import (
	"context"
	"sync"

	"github.com/taskmind/notifykit/pkg/notification"
)

// MemoryStatsStore is an in-memory StatsStore for development and tests.
type MemoryStatsStore struct {
	mu      sync.RWMutex
	stats   map[string]notification.DeliveryStats // userID/channel
	metrics map[string]notification.Metrics       // userID
}

// NewMemoryStatsStore creates an empty in-memory stats store.
func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{
		stats:   make(map[string]notification.DeliveryStats),
		metrics: make(map[string]notification.Metrics),
	}
}

func statsKey(userID string, ch notification.Channel) string {
	return userID + "/" + string(ch)
}

func (s *MemoryStatsStore) Stats(ctx context.Context, userID string, ch notification.Channel) (notification.DeliveryStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if stats, ok := s.stats[statsKey(userID, ch)]; ok {
		return stats, nil
	}
	return notification.DeliveryStats{UserID: userID, Channel: ch}, nil
}

func (s *MemoryStatsStore) SaveStats(ctx context.Context, stats notification.DeliveryStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[statsKey(stats.UserID, stats.Channel)] = stats
	return nil
}

func (s *MemoryStatsStore) Metrics(ctx context.Context, userID string) (notification.Metrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if m, ok := s.metrics[userID]; ok {
		return m, nil
	}
	return notification.Metrics{UserID: userID}, nil
}

func (s *MemoryStatsStore) SaveMetrics(ctx context.Context, metrics notification.Metrics) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[metrics.UserID] = metrics
	return nil
}
