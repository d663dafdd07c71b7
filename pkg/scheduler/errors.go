package scheduler

import "errors"

var (
	ErrStoreNil      = errors.New("notification store cannot be nil")
	ErrStatsStoreNil = errors.New("stats store cannot be nil")
	ErrBundlerNil    = errors.New("bundling engine cannot be nil")
	ErrClassifierNil = errors.New("classifier cannot be nil")
	ErrSinkNil       = errors.New("delivery sink cannot be nil")
)
