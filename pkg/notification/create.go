package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DueSoonLead is how far ahead of a task's due date the due_soon notification
// is scheduled.
const DueSoonLead = 24 * time.Hour

// NewReminder builds a pending reminder scheduled for the given instant.
// No scheduling logic runs at creation time; the scheduler picks the record up
// once ScheduledFor has passed.
func NewReminder(userID, taskID, title string, when time.Time) Notification {
	return newPending(userID, taskID, TypeReminder, Payload{
		Title:    title,
		Body:     fmt.Sprintf("Reminder: %s", title),
		Priority: PriorityMedium,
	}, when)
}

// NewDependencyBlocked builds a pending notification telling the user a task
// became blocked by one of its dependencies.
func NewDependencyBlocked(userID, taskID, title string, now time.Time) Notification {
	return newPending(userID, taskID, TypeDependencyBlocked, Payload{
		Title:    title,
		Body:     fmt.Sprintf("Task %q is blocked by an incomplete dependency", title),
		Priority: PriorityHigh,
	}, now)
}

// NewDependencyUnblocked builds a pending notification telling the user a task
// became workable again.
func NewDependencyUnblocked(userID, taskID, title string, now time.Time) Notification {
	return newPending(userID, taskID, TypeDependencyUnblocked, Payload{
		Title:    title,
		Body:     fmt.Sprintf("Task %q is no longer blocked", title),
		Priority: PriorityMedium,
	}, now)
}

// NewTaskCompleted builds a pending completion notification.
func NewTaskCompleted(userID, taskID, title string, now time.Time) Notification {
	return newPending(userID, taskID, TypeTaskCompleted, Payload{
		Title:    title,
		Body:     fmt.Sprintf("Task %q was completed", title),
		Priority: PriorityLow,
	}, now)
}

// NewDueSoon builds a pending due-date warning scheduled DueSoonLead before
// the due date.
func NewDueSoon(userID, taskID, title string, dueDate time.Time) Notification {
	return newPending(userID, taskID, TypeDueSoon, Payload{
		Title:    title,
		Body:     fmt.Sprintf("Task %q is due %s", title, dueDate.Format(time.RFC1123)),
		Priority: PriorityHigh,
	}, dueDate.Add(-DueSoonLead))
}

func newPending(userID, taskID string, typ Type, payload Payload, scheduledFor time.Time) Notification {
	return Notification{
		ID:           uuid.New().String(),
		UserID:       userID,
		TaskID:       taskID,
		Type:         typ,
		Status:       StatusPending,
		Channel:      ChannelPush,
		ScheduledFor: scheduledFor,
		Payload:      payload,
		CreatedAt:    time.Now(),
	}
}
