// Package logger builds configured slog.Logger instances and provides typed
// attribute helpers for the identifiers that recur across the engine
// (user IDs, notification IDs, channels). Components accept a *slog.Logger
// via options and default to slog.Default(), so the factory here is a
// convenience, not a requirement.
package logger
