// Package redis establishes the Redis connection used by the Redis-backed
// engagement stats store, with retry on startup and a readiness probe.
package redis
