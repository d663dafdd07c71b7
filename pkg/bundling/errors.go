package bundling

import "errors"

var (
	ErrProviderNil = errors.New("embedding provider cannot be nil")
)
