package notification

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation for development and tests.
type MemoryStore struct {
	mu            sync.RWMutex
	notifications map[string]Notification
	configs       map[string]DeliveryConfig
	activities    map[string]ActivityPattern
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		notifications: make(map[string]Notification),
		configs:       make(map[string]DeliveryConfig),
		activities:    make(map[string]ActivityPattern),
	}
}

func (s *MemoryStore) Create(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return ErrMissingID
	}
	if n.UserID == "" {
		return ErrMissingUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notifications[n.ID]; exists {
		return ErrAlreadyExists
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.notifications[n.ID] = n
	return nil
}

func (s *MemoryStore) QueryPending(ctx context.Context, before time.Time) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var pending []Notification
	for _, n := range s.notifications {
		if n.Status == StatusPending && !n.ScheduledFor.After(before) {
			pending = append(pending, n)
		}
	}
	// Arrival order matters to bundling: the first member of a group becomes
	// the carrier, so keep the result deterministic.
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].ID < pending[j].ID
		}
		return pending[i].CreatedAt.Before(pending[j].CreatedAt)
	})
	return pending, nil
}

func (s *MemoryStore) Claim(ctx context.Context, ids []string) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	claimed := make([]Notification, 0, len(ids))
	for _, id := range ids {
		n, ok := s.notifications[id]
		if !ok || n.Status != StatusPending {
			continue
		}
		n.Status = StatusClaimed
		s.notifications[id] = n
		claimed = append(claimed, n)
	}
	return claimed, nil
}

func (s *MemoryStore) Release(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		n, ok := s.notifications[id]
		if !ok || n.Status != StatusClaimed {
			continue
		}
		n.Status = StatusPending
		s.notifications[id] = n
	}
	return nil
}

func (s *MemoryStore) Save(ctx context.Context, n Notification) error {
	if n.ID == "" {
		return ErrMissingID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.notifications[n.ID]; !exists {
		return ErrNotFound
	}
	s.notifications[n.ID] = n
	return nil
}

func (s *MemoryStore) UserConfig(ctx context.Context, userID string) (DeliveryConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cfg, ok := s.configs[userID]; ok {
		return cfg, nil
	}
	return DefaultDeliveryConfig(), nil
}

func (s *MemoryStore) Activity(ctx context.Context, userID string) (ActivityPattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if activity, ok := s.activities[userID]; ok {
		return activity, nil
	}
	return DefaultActivityPattern(), nil
}

// SetUserConfig stores a user's delivery preferences after validating them.
// Malformed quiet hours are rejected here, at write time, never during a
// scheduler run.
func (s *MemoryStore) SetUserConfig(userID string, cfg DeliveryConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[userID] = cfg
	return nil
}

// SetActivity stores a user's activity pattern.
func (s *MemoryStore) SetActivity(userID string, activity ActivityPattern) error {
	if activity.QuietHours != nil {
		if err := activity.QuietHours.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities[userID] = activity
	return nil
}

// Get returns a notification by ID. Mostly useful in tests.
func (s *MemoryStore) Get(id string) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[id]
	return n, ok
}
