// Package engagement maintains the per-user statistics that feed back into
// channel selection: windowed moving averages over delivery outcomes
// (DeliveryStats, per channel) and fixed-decay moving averages over
// read/response behavior (Metrics, per user).
//
// The two update rules are intentionally distinct and must not be merged:
//
//   - windowed: new = (old*(N-1) + sample) / N, N = 100 by default
//   - fixed decay: new = old*0.9 + sample*0.1
//
// The Tracker applies both rules as pure functions; StatsStore implementations
// (memory, Redis) persist the aggregates. Stats updates for one user must be
// serialized by the caller; the scheduler processes each user on a single
// goroutine for exactly this reason.
package engagement
