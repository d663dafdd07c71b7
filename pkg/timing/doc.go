// Package timing computes the next eligible wall-clock instant for a
// notification given a user's activity pattern and quiet hours. The
// computation is pure: the caller threads the current instant through
// explicitly, so results are deterministic and testable.
package timing
