// Package events hands committed domain events to in-process subscribers.
package events

import (
	"context"

	"marketplace/domain/shared"
	"marketplace/pkg/logger"

	"go.uber.org/zap"
)

// Dispatcher publishes events after their transaction committed. The request that produced
// them has already succeeded, so publish failures are logged and never returned.
type Dispatcher struct {
	publisher shared.EventPublisher
}

func NewDispatcher(publisher shared.EventPublisher) *Dispatcher {
	return &Dispatcher{publisher: publisher}
}

func (d *Dispatcher) Dispatch(ctx context.Context, events []shared.DomainEvent) {
	if d == nil || d.publisher == nil {
		return
	}
	// Subscribers run their own units of work; a cancelled request must not abort them.
	ctx = context.WithoutCancel(ctx)
	for _, event := range events {
		if err := d.publisher.Publish(ctx, event); err != nil {
			logger.Ctx(ctx).Error("Event subscriber failed",
				zap.String("event", event.EventName()),
				zap.String("aggregate_id", event.GetAggregateID()),
				zap.Error(err))
		}
	}
}
