package notification

import (
	"encoding/json"
	"fmt"
	"time"
)

// Type categorizes the task event that produced a notification.
type Type string

const (
	TypeReminder            Type = "reminder"
	TypeDependencyBlocked   Type = "dependency_blocked"
	TypeDependencyUnblocked Type = "dependency_unblocked"
	TypeTaskCompleted       Type = "task_completed"
	TypeDueSoon             Type = "due_soon"
)

// Status represents the delivery state of a notification.
type Status string

const (
	StatusPending Status = "pending"
	// StatusClaimed is the interim marker set by the atomic claim; it exists so
	// that concurrent scheduler runs cannot double-process the same record.
	StatusClaimed Status = "claimed"
	StatusSent    Status = "sent"
	StatusRead    Status = "read"
	// StatusFailed is reserved. Per-channel delivery failures are swallowed and
	// the notification is still marked sent; use the scheduler's failure hook
	// to observe them.
	StatusFailed Status = "failed"
)

// Channel is a delivery medium.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPush  Channel = "push"
	ChannelBoth  Channel = "both"
	// ChannelInApp is the fallback when a user has no enabled channels.
	ChannelInApp Channel = "in-app"
)

// Resolve expands a configured channel into the concrete channels a sink is
// invoked with. ChannelBoth fans out to email and push.
func (c Channel) Resolve() []Channel {
	if c == ChannelBoth {
		return []Channel{ChannelEmail, ChannelPush}
	}
	return []Channel{c}
}

// Priority is the urgency of a notification. The ordering is
// Urgent > High > Medium > Low and is relied on when bundling merges payloads.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// ParsePriority maps a classifier label to a Priority.
func ParsePriority(label string) (Priority, error) {
	switch label {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "urgent":
		return PriorityUrgent, nil
	default:
		return PriorityMedium, fmt.Errorf("%w: %q", ErrUnknownPriority, label)
	}
}

// MarshalJSON encodes priorities as their labels so stored payloads stay
// readable and stable across re-orderings of the constants.
func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParsePriority(label)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// BundledRef is the trace of a notification absorbed into a bundle carrier.
type BundledRef struct {
	ID      string  `json:"id"`
	Type    Type    `json:"type"`
	Payload Payload `json:"payload"`
}

// Payload is the user-facing content of a notification.
type Payload struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Priority Priority `json:"priority"`
	// Bundled is set on a carrier that absorbed other notifications.
	Bundled              bool         `json:"bundled,omitempty"`
	BundledNotifications []BundledRef `json:"bundled_notifications,omitempty"`
}

// Notification is one potential delivery to one user.
type Notification struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	TaskID       string     `json:"task_id"`
	Type         Type       `json:"type"`
	Status       Status     `json:"status"`
	Channel      Channel    `json:"channel"`
	ScheduledFor time.Time  `json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
	Payload      Payload    `json:"payload"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Content returns the text the similarity oracle and classifier operate on:
// the notification type followed by the serialized payload.
func (n *Notification) Content() string {
	data, err := json.Marshal(n.Payload)
	if err != nil {
		// Payload is a plain struct; marshaling cannot realistically fail.
		// Fall back to the title so bundling still has something to compare.
		return fmt.Sprintf("%s %s", n.Type, n.Payload.Title)
	}
	return fmt.Sprintf("%s %s", n.Type, data)
}

// MarkSent transitions the notification to sent. Invariant: SentAt is set iff
// status is sent or read.
func (n *Notification) MarkSent(now time.Time) {
	n.Status = StatusSent
	sentAt := now
	n.SentAt = &sentAt
}

// MarkRead transitions a sent notification to read. ReadAt always follows
// SentAt.
func (n *Notification) MarkRead(now time.Time) error {
	if n.Status != StatusSent {
		return fmt.Errorf("%w: cannot mark %s notification as read", ErrInvalidTransition, n.Status)
	}
	n.Status = StatusRead
	readAt := now
	n.ReadAt = &readAt
	return nil
}
