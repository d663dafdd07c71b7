// Package notifykit is a notification scheduling and adaptive delivery kit
// for task-management systems.
//
// The kit is a set of focused packages under pkg/ that compose into a
// delivery pipeline: pending notifications are bundled by semantic
// similarity, timed around the user's quiet and active hours, classified by
// urgency, routed to the channel with the best engagement history, and
// handed to a transport sink.
//
// Packages:
//
//   - pkg/notification: domain model and persistence (memory, Postgres)
//   - pkg/bundling: semantic grouping of a user's pending notifications
//   - pkg/timing: quiet-hours and active-hours delivery time calculation
//   - pkg/channels: multi-factor channel scoring and selection
//   - pkg/engagement: delivery and engagement aggregates (memory, Redis)
//   - pkg/embedding, pkg/classifier: external model providers behind
//     interfaces, with deterministic local implementations
//   - pkg/scheduler: the orchestrating batch loop tying it all together
//
// Minimal wiring:
//
//	store := notification.NewMemoryStore()
//	stats := engagement.NewMemoryStatsStore()
//	provider, _ := embedding.NewOpenAIProvider(embedding.OpenAIConfig{APIKey: key})
//	bundler, _ := bundling.NewEngine(provider)
//
//	s, err := scheduler.New(store, stats, bundler, classifier.Keyword{}, scheduler.NewLogSink(nil))
//	if err != nil {
//		return err
//	}
//	return s.Run(ctx)
package notifykit
