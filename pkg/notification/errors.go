package notification

import "errors"

// Domain errors. Store implementations wrap these so callers can branch with
// errors.Is regardless of the backing storage.
var (
	ErrNotFound           = errors.New("notification not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrUnknownPriority    = errors.New("unknown priority label")
	ErrInvalidQuietHours  = errors.New("quiet hours must wrap midnight (start > end)")
	ErrInvalidHour        = errors.New("hour must be in range 0..23")
	ErrNoEnabledChannels  = errors.New("delivery config has no enabled channels")
	ErrMissingUserID      = errors.New("user ID is required")
	ErrMissingID          = errors.New("notification ID is required")
	ErrAlreadyExists      = errors.New("notification already exists")
	ErrEmptyActiveHours   = errors.New("activity pattern has no active hours")
	ErrUnsupportedChannel = errors.New("unsupported delivery channel")
)
