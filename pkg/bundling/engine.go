package bundling

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/taskmind/notifykit/pkg/embedding"
	"github.com/taskmind/notifykit/pkg/logger"
	"github.com/taskmind/notifykit/pkg/notification"
)

// DefaultThreshold is the inclusive cosine similarity boundary for grouping.
const DefaultThreshold = 0.85

// Unit is the output of bundling: a carrier notification that gets delivered
// and the notifications absorbed into it.
type Unit struct {
	Carrier  notification.Notification
	Absorbed []notification.Notification
}

// Engine groups pending notifications by semantic similarity.
type Engine struct {
	provider    embedding.Provider
	threshold   float64
	concurrency int
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold overrides the similarity threshold. The comparison stays
// inclusive: similarity equal to the threshold groups.
func WithThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 && t <= 1 {
			e.threshold = t
		}
	}
}

// WithEmbedConcurrency bounds the parallel embedding requests issued while
// prefetching a user's pending set.
func WithEmbedConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger sets the engine's logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// NewEngine creates a bundling engine on top of the given similarity oracle.
func NewEngine(provider embedding.Provider, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, ErrProviderNil
	}

	e := &Engine{
		provider:    provider,
		threshold:   DefaultThreshold,
		concurrency: 4,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// group is an open bundle under construction. The representative embedding is
// the first member's vector, cached so every comparison does not re-embed it.
type group struct {
	rep     embedding.Vector
	members []notification.Notification
}

// Bundle groups the pending notifications of one user. Input order is
// preserved: the first member of each group becomes its carrier, and groups
// appear in the order they were opened. Running Bundle twice over the same
// input with a stable oracle yields the same grouping.
func (e *Engine) Bundle(ctx context.Context, pending []notification.Notification) ([]Unit, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	vectors, err := e.prefetch(ctx, pending)
	if err != nil {
		return nil, err
	}

	var groups []*group
	for i, n := range pending {
		vec := vectors[i]
		if vec == nil {
			// Oracle failed for this notification: ungroupable, its own
			// singleton group. Leaving rep nil keeps later members from
			// joining it.
			groups = append(groups, &group{members: []notification.Notification{n}})
			continue
		}

		joined := false
		for _, g := range groups {
			if g.rep == nil {
				continue
			}
			if embedding.CosineSimilarity(vec, g.rep) >= e.threshold {
				g.members = append(g.members, n)
				joined = true
				break
			}
		}
		if !joined {
			groups = append(groups, &group{rep: vec, members: []notification.Notification{n}})
		}
	}

	units := make([]Unit, 0, len(groups))
	for _, g := range groups {
		units = append(units, e.seal(g))
	}
	return units, nil
}

// prefetch embeds all contents concurrently. A failed embedding yields a nil
// vector rather than an error: oracle unavailability must not block delivery.
func (e *Engine) prefetch(ctx context.Context, pending []notification.Notification) ([]embedding.Vector, error) {
	vectors := make([]embedding.Vector, len(pending))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(e.concurrency)
	for i := range pending {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			vec, err := e.provider.Embed(ctx, pending[i].Content())
			if err != nil {
				e.logger.LogAttrs(ctx, slog.LevelWarn, "embedding failed, notification stays ungrouped",
					logger.NotificationID(pending[i].ID),
					logger.UserID(pending[i].UserID),
					logger.Error(err),
				)
				return nil
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// seal turns a finished group into a Unit. Size-one groups emit a plain,
// non-bundled carrier. Larger groups rewrite the carrier payload with the
// absorbed members and lift its priority to the maximum across the group.
func (e *Engine) seal(g *group) Unit {
	carrier := g.members[0]
	if len(g.members) == 1 {
		return Unit{Carrier: carrier}
	}

	absorbed := g.members[1:]
	// A rescheduled carrier may already hold refs from an earlier run whose
	// absorbed members are long sent; those must survive re-bundling.
	existing := carrier.Payload.BundledNotifications
	refs := make([]notification.BundledRef, len(existing), len(existing)+len(absorbed))
	copy(refs, existing)
	maxPriority := carrier.Payload.Priority
	for _, n := range absorbed {
		refs = append(refs, notification.BundledRef{
			ID:      n.ID,
			Type:    n.Type,
			Payload: n.Payload,
		})
		if n.Payload.Priority > maxPriority {
			maxPriority = n.Payload.Priority
		}
	}

	carrier.Payload.Bundled = true
	carrier.Payload.BundledNotifications = refs
	carrier.Payload.Priority = maxPriority

	return Unit{Carrier: carrier, Absorbed: absorbed}
}
