package events

import (
	"context"
)

// Publisher fans placement and resolution notifications out to external
// consumers. Delivery happens after the owning transaction commits and is
// fire-and-forget: consumers must tolerate at-least-once delivery and missed
// deliveries, and publish failures never fail the operation that emitted them.
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e BetPlaced) error
	PublishParlayPlaced(ctx context.Context, e ParlayPlaced) error
	PublishMarketResolved(ctx context.Context, e MarketResolved) error
}

// NopPublisher drops every event. Used in tests and when no broker is
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishBetPlaced(context.Context, BetPlaced) error           { return nil }
func (NopPublisher) PublishParlayPlaced(context.Context, ParlayPlaced) error     { return nil }
func (NopPublisher) PublishMarketResolved(context.Context, MarketResolved) error { return nil }
