package cartitems

import (
	"context"
	"time"

	"github.com/dcbdemo/shopping-cart-engine-go/cart/shell"
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// QueryHandler orchestrates the complete query processing workflow.
// It handles infrastructure concerns like event store interactions and
// observability instrumentation, and delegates projection logic to the pure
// core function.
type QueryHandler struct {
	eventStore       shell.ReadsEvents
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency and options.
func NewQueryHandler(eventStore shell.ReadsEvents, opts ...Option) (QueryHandler, error) {
	h := QueryHandler{
		eventStore: eventStore,
	}

	for _, opt := range opts {
		if err := opt(&h); err != nil {
			return QueryHandler{}, err
		}
	}

	return h, nil
}

// Handle executes the complete query processing workflow: Read -> Project.
// Queries tolerate slightly stale data, so the read is routed with eventual
// consistency and may be served by a replica.
func (h QueryHandler) Handle(ctx context.Context, query Query) (CartItems, error) {
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, h.tracingCollector, queryType)
	shell.LogQueryStart(ctx, h.logger, h.contextualLogger, queryType)

	ctx = eventstore.WithEventualConsistency(ctx)

	sequencedEvents, _, err := h.eventStore.Read(ctx, BuildEventFilter(query.CartID))
	if err != nil {
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return CartItems{}, err
	}

	history, err := shell.DomainEventsFrom(sequencedEvents)
	if err != nil {
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return CartItems{}, err
	}

	result := ProjectCartItems(history, query)

	duration := time.Since(queryStart)
	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, shell.StatusSuccess, duration)
	shell.LogQuerySuccess(ctx, h.logger, h.contextualLogger, queryType, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, shell.StatusSuccess, duration, nil)

	return result, nil
}

func (h QueryHandler) recordQueryError(
	ctx context.Context,
	err error,
	duration time.Duration,
	span shell.SpanContext,
) {
	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, shell.StatusError, duration)
	shell.LogQueryError(ctx, h.logger, h.contextualLogger, queryType, err)
	shell.FinishQuerySpan(h.tracingCollector, span, shell.StatusError, duration, err)
}

/*** Query Handler Options ***/

// Option defines a functional option for configuring QueryHandler.
type Option func(*QueryHandler) error

// WithMetrics sets the metrics collector for the QueryHandler.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(h *QueryHandler) error {
		h.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the QueryHandler.
func WithTracing(collector shell.TracingCollector) Option {
	return func(h *QueryHandler) error {
		h.tracingCollector = collector
		return nil
	}
}

// WithContextualLogging sets the contextual logger for the QueryHandler.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(h *QueryHandler) error {
		h.contextualLogger = logger
		return nil
	}
}

// WithLogging sets the basic logger for the QueryHandler.
func WithLogging(logger shell.Logger) Option {
	return func(h *QueryHandler) error {
		h.logger = logger
		return nil
	}
}
