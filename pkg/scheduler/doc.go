// Package scheduler runs the batch loop that turns pending notifications into
// deliveries: claim due records, bundle them per user, reschedule carriers
// that land in quiet or inactive hours, classify priority, select a channel,
// hand the carrier to the delivery sink, and feed outcomes back into the
// engagement statistics.
//
// One RunOnce call is one batch. Claiming is atomic at the store level, so
// concurrent scheduler instances partition the pending set instead of
// double-delivering. Users are processed in parallel, but everything for one
// user happens on a single goroutine: bundling must see the user's full
// pending set before any delivery decision, and the engagement aggregates
// require a single writer per user.
//
// Delivery is best effort. A channel-level failure is logged, counted in the
// stats, and reported through the optional failure hook, but the notification
// is still marked sent once all channels were attempted. Install a failure
// hook to tighten that contract externally.
package scheduler
