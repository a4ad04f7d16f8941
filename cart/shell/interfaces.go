package shell

import (
	"context"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/core"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// EventStore defines the event store operations the cart features need.
// All engines (postgres, sqlite, memory) satisfy it.
type EventStore interface {
	Read(ctx context.Context, filter eventstore.Filter) (
		eventstore.SequencedEvents,
		eventstore.AppendCondition,
		error,
	)
	Append(
		ctx context.Context,
		condition *eventstore.AppendCondition,
		storableEvents ...eventstore.StorableEvent,
	) (eventstore.PositionRange, error)
}

// ReadsEvents is the read-only subset of EventStore used by query handlers.
type ReadsEvents interface {
	Read(ctx context.Context, filter eventstore.Filter) (
		eventstore.SequencedEvents,
		eventstore.AppendCondition,
		error,
	)
}

// PublishableCart is the content of a submitted cart as handed to the
// downstream ordering system.
type PublishableCart struct {
	CartID          core.CartIDString
	OrderedProducts []core.OrderedProduct
	TotalPrice      core.PriceFloat
}

// MessagePublisher hands a submitted cart over to the downstream ordering
// system. Implementations may talk to a broker, an HTTP endpoint, or a fake.
type MessagePublisher interface {
	Publish(ctx context.Context, cart PublishableCart) error
}

// Observability interfaces, re-exported so feature slices only import shell.

// Logger is re-exported from the eventstore package.
type Logger = eventstore.Logger

// ContextualLogger is re-exported from the eventstore package.
type ContextualLogger = eventstore.ContextualLogger

// MetricsCollector is re-exported from the eventstore package.
type MetricsCollector = eventstore.MetricsCollector

// ContextualMetricsCollector is re-exported from the eventstore package.
type ContextualMetricsCollector = eventstore.ContextualMetricsCollector

// TracingCollector is re-exported from the eventstore package.
type TracingCollector = eventstore.TracingCollector

// SpanContext is re-exported from the eventstore package.
type SpanContext = eventstore.SpanContext
