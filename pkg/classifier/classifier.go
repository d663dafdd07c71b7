package classifier

import (
	"context"
	"strings"

	"github.com/taskmind/notifykit/pkg/notification"
)

// Classifier maps free text to one of the priority labels {high, medium, low}.
type Classifier interface {
	Classify(ctx context.Context, text string) (notification.Priority, error)
}

// Static always returns a fixed priority. Useful in tests.
type Static struct {
	Priority notification.Priority
}

func (s Static) Classify(ctx context.Context, text string) (notification.Priority, error) {
	return s.Priority, nil
}

// Keyword is a deterministic, dependency-free classifier scanning for urgency
// markers. It exists both as a standalone option and as a local fallback when
// the remote classifier is unavailable.
type Keyword struct {
	// HighMarkers override the default high-priority keyword set.
	HighMarkers []string
	// LowMarkers override the default low-priority keyword set.
	LowMarkers []string
}

var (
	defaultHighMarkers = []string{"urgent", "asap", "overdue", "due", "blocked", "critical", "deadline"}
	defaultLowMarkers  = []string{"completed", "done", "fyi", "someday", "later"}
)

func (k Keyword) Classify(ctx context.Context, text string) (notification.Priority, error) {
	lowered := strings.ToLower(text)

	high := k.HighMarkers
	if high == nil {
		high = defaultHighMarkers
	}
	for _, marker := range high {
		if strings.Contains(lowered, marker) {
			return notification.PriorityHigh, nil
		}
	}

	low := k.LowMarkers
	if low == nil {
		low = defaultLowMarkers
	}
	for _, marker := range low {
		if strings.Contains(lowered, marker) {
			return notification.PriorityLow, nil
		}
	}

	return notification.PriorityMedium, nil
}
