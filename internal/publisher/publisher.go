package publisher

import (
	"context"

	"GasSentinel/internal/model"
)

// Publisher forwards the actionable parts of a plan to downstream consumers.
type Publisher interface {
	PublishPlan(ctx context.Context, plan *model.ActionPlan) error
	Close() error
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPlan(context.Context, *model.ActionPlan) error { return nil }
func (NoopPublisher) Close() error                                         { return nil }
