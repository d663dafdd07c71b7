// Package notification defines the core domain model for the scheduling and
// adaptive delivery engine: the Notification record and its lifecycle, per-user
// delivery configuration and activity patterns, engagement aggregates, and the
// Store interface used by the scheduler to persist and claim records.
//
// The package ships two Store implementations:
//
//   - MemoryStore: in-memory, for development and tests
//   - PgStore: PostgreSQL-backed via pgx, with an atomic claim so that two
//     concurrent scheduler instances never deliver the same notification twice
//
// # Lifecycle
//
// A notification is created as pending by one of the convenience constructors
// (NewReminder, NewDueSoon, ...). The scheduler claims it, decides bundling,
// timing and channel, and transitions it to sent. An external acknowledgement
// path transitions sent notifications to read. While pending, ScheduledFor may
// be rewritten any number of times; after that the record is immutable except
// for the read transition.
package notification
