package engagement

import "errors"

var (
	ErrStatsNotFound   = errors.New("delivery stats not found")
	ErrMetricsNotFound = errors.New("notification metrics not found")
)
