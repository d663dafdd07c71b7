package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/taskmind/notifykit/pkg/logger"
	"github.com/taskmind/notifykit/pkg/notification"
)

// Sink delivers a notification on one concrete channel. Real transports
// (email, push) live behind this interface; the engine itself never talks to
// a provider directly.
type Sink interface {
	Send(ctx context.Context, n notification.Notification, ch notification.Channel) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, n notification.Notification, ch notification.Channel) error

func (f SinkFunc) Send(ctx context.Context, n notification.Notification, ch notification.Channel) error {
	return f(ctx, n, ch)
}

// LogSink writes every delivery to the log and succeeds. Useful in
// development and as a default while transports are wired up.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink creates a LogSink; a nil logger falls back to slog.Default().
func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{logger: log}
}

func (s *LogSink) Send(ctx context.Context, n notification.Notification, ch notification.Channel) error {
	s.logger.LogAttrs(ctx, slog.LevelInfo, "delivering notification",
		logger.NotificationID(n.ID),
		logger.UserID(n.UserID),
		logger.Channel(ch),
		slog.String("title", n.Payload.Title),
		slog.String("priority", n.Payload.Priority.String()),
		slog.Bool("bundled", n.Payload.Bundled),
	)
	return nil
}

// Delivery is one recorded sink invocation.
type Delivery struct {
	Notification notification.Notification
	Channel      notification.Channel
}

// RecordingSink captures deliveries for inspection in tests.
type RecordingSink struct {
	mu         sync.Mutex
	deliveries []Delivery
	// Fail maps channels to the error Send should return for them.
	Fail map[notification.Channel]error
}

// NewRecordingSink creates an empty recording sink.
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{}
}

func (s *RecordingSink) Send(ctx context.Context, n notification.Notification, ch notification.Channel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.Fail[ch]; ok && err != nil {
		return err
	}
	s.deliveries = append(s.deliveries, Delivery{Notification: n, Channel: ch})
	return nil
}

// Deliveries returns a copy of everything sent so far.
func (s *RecordingSink) Deliveries() []Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Delivery, len(s.deliveries))
	copy(out, s.deliveries)
	return out
}
