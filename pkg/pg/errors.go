package pg

import "errors"

var (
	ErrFailedToParseConfig      = errors.New("failed to parse postgres config")
	ErrFailedToOpenConnection   = errors.New("failed to open postgres connection")
	ErrFailedToApplyMigrations  = errors.New("failed to apply migrations")
	ErrMigrationsPathNotSet     = errors.New("migrations path is not set")
	ErrMigrationsDirNotFound    = errors.New("migrations directory not found")
	ErrHealthcheckFailed        = errors.New("postgres healthcheck failed")
)
