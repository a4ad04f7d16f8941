package postgresengine

import (
	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// Logger is the engine-local alias for eventstore.Logger.
type Logger = eventstore.Logger

// ContextualLogger is the engine-local alias for eventstore.ContextualLogger.
type ContextualLogger = eventstore.ContextualLogger

// MetricsCollector is the engine-local alias for eventstore.MetricsCollector.
type MetricsCollector = eventstore.MetricsCollector

// TracingCollector is the engine-local alias for eventstore.TracingCollector.
type TracingCollector = eventstore.TracingCollector

// SpanContext is the engine-local alias for eventstore.SpanContext.
type SpanContext = eventstore.SpanContext

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithTableName sets the table name for the EventStore.
func WithTableName(tableName string) Option {
	return func(es *EventStore) error {
		if tableName == "" {
			return eventstore.ErrEmptyEventsTableName
		}

		es.eventTableName = tableName

		return nil
	}
}

// WithKeyRules sets the boundary key derivation rules for the EventStore.
// Events whose type has no rule are stored without keys and can only be
// matched by event type filters.
func WithKeyRules(rules eventstore.KeyRules) Option {
	return func(es *EventStore) error {
		es.keyRules = rules
		return nil
	}
}

// WithLogger sets the logger for the EventStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Event counts, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
// The metrics collector will receive performance and operational metrics including
// read/append durations, event counts, concurrency conflicts, and database errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the EventStore.
// The tracing collector will receive distributed tracing information including
// span creation for read/append operations, context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(es *EventStore) error {
		es.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the EventStore.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(es *EventStore) error {
		es.contextualLogger = logger
		return nil
	}
}
