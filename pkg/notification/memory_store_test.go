package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Create(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	n := NewReminder("user-1", "task-1", "Pay rent", now)
	require.NoError(t, store.Create(ctx, n))

	t.Run("duplicate id rejected", func(t *testing.T) {
		assert.ErrorIs(t, store.Create(ctx, n), ErrAlreadyExists)
	})

	t.Run("missing id rejected", func(t *testing.T) {
		bad := n
		bad.ID = ""
		assert.ErrorIs(t, store.Create(ctx, bad), ErrMissingID)
	})
}

func TestMemoryStore_QueryPending(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	due := NewReminder("user-1", "task-1", "due", now.Add(-time.Minute))
	future := NewReminder("user-1", "task-2", "future", now.Add(time.Hour))
	sent := NewReminder("user-2", "task-3", "sent", now.Add(-time.Minute))
	sent.MarkSent(now)

	for _, n := range []Notification{due, future, sent} {
		require.NoError(t, store.Create(ctx, n))
	}

	got, err := store.QueryPending(ctx, now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}

func TestMemoryStore_Claim(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	a := NewReminder("user-1", "task-1", "a", now.Add(-time.Minute))
	b := NewReminder("user-1", "task-2", "b", now.Add(-time.Minute))
	require.NoError(t, store.Create(ctx, a))
	require.NoError(t, store.Create(ctx, b))

	claimed, err := store.Claim(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	for _, n := range claimed {
		assert.Equal(t, StatusClaimed, n.Status)
	}

	t.Run("second claim wins nothing", func(t *testing.T) {
		again, err := store.Claim(ctx, []string{a.ID, b.ID})
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("claimed rows hidden from query", func(t *testing.T) {
		pending, err := store.QueryPending(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("release returns rows to pending", func(t *testing.T) {
		require.NoError(t, store.Release(ctx, []string{a.ID}))

		pending, err := store.QueryPending(ctx, now)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, a.ID, pending[0].ID)
	})
}

func TestMemoryStore_Save(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	n := NewReminder("user-1", "task-1", "a", now)
	require.NoError(t, store.Create(ctx, n))

	n.MarkSent(now)
	require.NoError(t, store.Save(ctx, n))

	got, ok := store.Get(n.ID)
	require.True(t, ok)
	assert.Equal(t, StatusSent, got.Status)

	t.Run("unknown id", func(t *testing.T) {
		missing := NewReminder("user-1", "task-9", "x", now)
		assert.ErrorIs(t, store.Save(ctx, missing), ErrNotFound)
	})
}

func TestMemoryStore_UserPreferences(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("defaults when unset", func(t *testing.T) {
		cfg, err := store.UserConfig(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, DefaultDeliveryConfig(), cfg)

		activity, err := store.Activity(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, DefaultActivityPattern(), activity)
	})

	t.Run("stored values round-trip", func(t *testing.T) {
		cfg := DefaultDeliveryConfig()
		cfg.PreferredChannel = ChannelEmail
		require.NoError(t, store.SetUserConfig("user-1", cfg))

		got, err := store.UserConfig(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, ChannelEmail, got.PreferredChannel)
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		cfg := DefaultDeliveryConfig()
		cfg.QuietHours = &QuietHours{Start: 9, End: 17}
		assert.Error(t, store.SetUserConfig("user-1", cfg))
	})
}
