// Package pg establishes the PostgreSQL connection pool used by the
// notification store and applies its goose migrations. Connection setup
// retries with backoff so the engine survives database restarts at startup.
package pg
