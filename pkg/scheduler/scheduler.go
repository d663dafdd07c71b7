package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taskmind/notifykit/pkg/bundling"
	"github.com/taskmind/notifykit/pkg/channels"
	"github.com/taskmind/notifykit/pkg/classifier"
	"github.com/taskmind/notifykit/pkg/engagement"
	"github.com/taskmind/notifykit/pkg/logger"
	"github.com/taskmind/notifykit/pkg/notification"
	"github.com/taskmind/notifykit/pkg/timing"
)

// Config holds the scheduler's environment-tunable settings.
type Config struct {
	// Interval is the cadence of the periodic Run loop.
	Interval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"1m"`

	// Parallelism bounds how many users are processed concurrently per run.
	Parallelism int `env:"SCHEDULER_PARALLELISM" envDefault:"4"`
}

// FailureHook observes channel-level delivery failures. The default contract
// is lenient (the notification is marked sent anyway); a hook is the place to
// tighten it: re-enqueue, alert, or flip the record to failed out of band.
type FailureHook func(n notification.Notification, ch notification.Channel, err error)

// Scheduler is the orchestrating batch loop.
type Scheduler struct {
	store      notification.Store
	stats      engagement.StatsStore
	bundler    *bundling.Engine
	classifier classifier.Classifier
	sink       Sink

	selector *channels.Selector
	tracker  *engagement.Tracker

	interval    time.Duration
	parallelism int
	logger      *slog.Logger
	onFailure   FailureHook
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithConfig applies interval and parallelism from an env-loaded Config.
func WithConfig(cfg Config) Option {
	return func(s *Scheduler) {
		if cfg.Interval > 0 {
			s.interval = cfg.Interval
		}
		if cfg.Parallelism > 0 {
			s.parallelism = cfg.Parallelism
		}
	}
}

// WithInterval sets the periodic run cadence.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithParallelism bounds concurrent per-user processing.
func WithParallelism(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithSelector overrides the channel selector.
func WithSelector(sel *channels.Selector) Option {
	return func(s *Scheduler) {
		if sel != nil {
			s.selector = sel
		}
	}
}

// WithTracker overrides the engagement tracker.
func WithTracker(t *engagement.Tracker) Option {
	return func(s *Scheduler) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithDeliveryFailureHook installs an observer for channel-level failures.
func WithDeliveryFailureHook(hook FailureHook) Option {
	return func(s *Scheduler) {
		s.onFailure = hook
	}
}

// New wires the scheduler. Store, stats store, bundler, classifier, and sink
// are required; selector and tracker default to fresh instances.
func New(
	store notification.Store,
	stats engagement.StatsStore,
	bundler *bundling.Engine,
	cls classifier.Classifier,
	sink Sink,
	opts ...Option,
) (*Scheduler, error) {
	switch {
	case store == nil:
		return nil, ErrStoreNil
	case stats == nil:
		return nil, ErrStatsStoreNil
	case bundler == nil:
		return nil, ErrBundlerNil
	case cls == nil:
		return nil, ErrClassifierNil
	case sink == nil:
		return nil, ErrSinkNil
	}

	s := &Scheduler{
		store:       store,
		stats:       stats,
		bundler:     bundler,
		classifier:  cls,
		sink:        sink,
		selector:    channels.NewSelector(),
		tracker:     engagement.NewTracker(),
		interval:    time.Minute,
		parallelism: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run executes RunOnce immediately and then on every tick until the context
// is cancelled. Run errors are logged, never fatal: the next tick retries.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runAndLog(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.runAndLog(ctx)
		}
	}
}

func (s *Scheduler) runAndLog(ctx context.Context) {
	if err := s.RunOnce(ctx, time.Now()); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "scheduler run failed",
			logger.Error(err),
		)
	}
}

// RunOnce processes one batch as of the given instant. Safe to call
// repeatedly and concurrently: the atomic claim partitions pending rows
// between racing runs, so the loser of a race simply sees fewer rows.
func (s *Scheduler) RunOnce(ctx context.Context, now time.Time) error {
	pending, err := s.store.QueryPending(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to query pending notifications: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	ids := make([]string, len(pending))
	for i, n := range pending {
		ids[i] = n.ID
	}
	claimed, err := s.store.Claim(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to claim notifications: %w", err)
	}
	if len(claimed) == 0 {
		// Another run claimed everything first. Not an error.
		return nil
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "claimed pending notifications",
		logger.Count("claimed", len(claimed)),
		logger.Count("pending", len(pending)),
	)

	byUser := partitionByUser(claimed)

	// Users are independent; process them in parallel. Everything for one
	// user stays on one goroutine so stats updates have a single writer.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallelism)
	for userID, list := range byUser {
		eg.Go(func() error {
			if err := s.processUser(egCtx, userID, list, now); err != nil {
				return fmt.Errorf("user %s: %w", userID, err)
			}
			return nil
		})
	}
	return eg.Wait()
}

// partitionByUser groups claimed notifications by user, preserving the
// arrival order within each user (bundling keys carriers off the first
// member).
func partitionByUser(claimed []notification.Notification) map[string][]notification.Notification {
	byUser := make(map[string][]notification.Notification)
	for _, n := range claimed {
		byUser[n.UserID] = append(byUser[n.UserID], n)
	}
	return byUser
}

// userState carries the per-user context loaded once per run.
type userState struct {
	config   notification.DeliveryConfig
	activity notification.ActivityPattern
	metrics  notification.Metrics
	stats    map[notification.Channel]notification.DeliveryStats
}

func (s *Scheduler) processUser(ctx context.Context, userID string, list []notification.Notification, now time.Time) error {
	release := func() {
		ids := make([]string, len(list))
		for i, n := range list {
			ids[i] = n.ID
		}
		if err := s.store.Release(ctx, ids); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "failed to release claimed notifications",
				logger.UserID(userID),
				logger.Error(err),
			)
		}
	}

	state, err := s.loadUserState(ctx, userID)
	if err != nil {
		release()
		return err
	}

	units, err := s.bundler.Bundle(ctx, list)
	if err != nil {
		release()
		return fmt.Errorf("bundling failed: %w", err)
	}

	var errs []error
	for _, unit := range units {
		if err := s.processUnit(ctx, &state, unit, now); err != nil {
			errs = append(errs, err)
			s.releaseUnit(ctx, unit)
		}
	}
	return errors.Join(errs...)
}

// releaseUnit returns a failed unit's still-claimed members to pending so the
// next run retries them. Members already persisted as sent are untouched:
// Release only flips claimed rows.
func (s *Scheduler) releaseUnit(ctx context.Context, unit bundling.Unit) {
	ids := make([]string, 0, 1+len(unit.Absorbed))
	ids = append(ids, unit.Carrier.ID)
	for _, n := range unit.Absorbed {
		ids = append(ids, n.ID)
	}
	if err := s.store.Release(ctx, ids); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "failed to release claimed notifications",
			logger.UserID(unit.Carrier.UserID),
			logger.Error(err),
		)
	}
}

func (s *Scheduler) loadUserState(ctx context.Context, userID string) (userState, error) {
	cfg, err := s.store.UserConfig(ctx, userID)
	if err != nil {
		return userState{}, fmt.Errorf("failed to load delivery config: %w", err)
	}
	activity, err := s.store.Activity(ctx, userID)
	if err != nil {
		return userState{}, fmt.Errorf("failed to load activity pattern: %w", err)
	}
	metrics, err := s.stats.Metrics(ctx, userID)
	if err != nil {
		return userState{}, fmt.Errorf("failed to load metrics: %w", err)
	}

	statsByChannel := make(map[notification.Channel]notification.DeliveryStats)
	for _, ch := range cfg.EnabledChannels {
		st, err := s.stats.Stats(ctx, userID, ch)
		if err != nil {
			return userState{}, fmt.Errorf("failed to load delivery stats for channel %s: %w", ch, err)
		}
		// A channel with no history yet is "absent" to the selector, which
		// then scores it zero or falls back to the metrics-only path.
		if !statsEmpty(st) {
			statsByChannel[ch] = st
		}
	}

	return userState{
		config:   cfg,
		activity: activity,
		metrics:  metrics,
		stats:    statsByChannel,
	}, nil
}

func statsEmpty(st notification.DeliveryStats) bool {
	return st.DeliveryRate == 0 && st.ResponseRate == 0 && st.EngagementScore == 0 && st.FailureCount == 0
}

// processUnit runs the decision pipeline for one bundle unit: absorb
// duplicates, compute the delivery time, classify, select a channel, deliver,
// and record the outcome.
func (s *Scheduler) processUnit(ctx context.Context, state *userState, unit bundling.Unit, now time.Time) error {
	carrier := unit.Carrier

	// Absorbed members are merged into the carrier: straight to sent, no
	// delivery attempt, excluded from stats.
	for _, absorbed := range unit.Absorbed {
		absorbed.MarkSent(now)
		if err := s.store.Save(ctx, absorbed); err != nil {
			return fmt.Errorf("failed to mark absorbed notification %s as sent: %w", absorbed.ID, err)
		}
	}

	quiet := state.config.QuietHours
	if quiet == nil {
		quiet = state.activity.QuietHours
	}
	optimal := timing.OptimalTime(state.activity, quiet, now)
	if optimal.After(now) {
		return s.reschedule(ctx, carrier, optimal)
	}

	priority, err := s.classifier.Classify(ctx, carrier.Content())
	if err != nil {
		// Classification is required before delivery. Leave the carrier
		// pending; the next run retries.
		s.logger.LogAttrs(ctx, slog.LevelWarn, "classification failed, leaving notification pending",
			logger.NotificationID(carrier.ID),
			logger.UserID(carrier.UserID),
			logger.Error(err),
		)
		carrier.Status = notification.StatusPending
		if err := s.store.Save(ctx, carrier); err != nil {
			return fmt.Errorf("failed to release carrier %s: %w", carrier.ID, err)
		}
		return nil
	}
	// A bundle carrier already holds the maximum priority of its members;
	// classification can only raise it further.
	if priority > carrier.Payload.Priority {
		carrier.Payload.Priority = priority
	}

	ch, score := s.selector.Select(state.config, state.activity, state.metrics, state.stats)
	carrier.Channel = ch

	s.logger.LogAttrs(ctx, slog.LevelDebug, "channel selected",
		logger.NotificationID(carrier.ID),
		logger.UserID(carrier.UserID),
		logger.Channel(ch),
		slog.Float64("score", score),
	)

	s.deliver(ctx, state, &carrier)

	carrier.MarkSent(now)
	if err := s.store.Save(ctx, carrier); err != nil {
		return fmt.Errorf("failed to mark carrier %s as sent: %w", carrier.ID, err)
	}

	state.metrics = s.tracker.RecordOutcome(state.metrics, carrier)
	if err := s.stats.SaveMetrics(ctx, state.metrics); err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}
	return nil
}

func (s *Scheduler) reschedule(ctx context.Context, carrier notification.Notification, optimal time.Time) error {
	carrier.ScheduledFor = optimal
	carrier.Status = notification.StatusPending
	if err := s.store.Save(ctx, carrier); err != nil {
		return fmt.Errorf("failed to reschedule carrier %s: %w", carrier.ID, err)
	}

	s.logger.LogAttrs(ctx, slog.LevelInfo, "notification rescheduled",
		logger.NotificationID(carrier.ID),
		logger.UserID(carrier.UserID),
		slog.Time("scheduled_for", optimal),
	)
	return nil
}

// deliver attempts each resolved channel in order. Failures are logged,
// counted, and reported to the hook, but never abort the remaining channels
// or the notification: delivery is best effort by contract.
func (s *Scheduler) deliver(ctx context.Context, state *userState, carrier *notification.Notification) {
	for _, ch := range carrier.Channel.Resolve() {
		err := s.sink.Send(ctx, *carrier, ch)
		if err != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "delivery failed on channel",
				logger.NotificationID(carrier.ID),
				logger.UserID(carrier.UserID),
				logger.Channel(ch),
				logger.Error(err),
			)
			if s.onFailure != nil {
				s.onFailure(*carrier, ch, err)
			}
		}

		st, ok := state.stats[ch]
		if !ok {
			st = notification.DeliveryStats{UserID: carrier.UserID, Channel: ch}
		}
		st = s.tracker.RecordDelivery(st, engagement.Outcome{Success: err == nil})
		state.stats[ch] = st
		if saveErr := s.stats.SaveStats(ctx, st); saveErr != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "failed to save delivery stats",
				logger.UserID(carrier.UserID),
				logger.Channel(ch),
				logger.Error(saveErr),
			)
		}
	}
}
