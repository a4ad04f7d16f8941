package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

const (
	operationRead                = "read"
	operationAppend              = "append"
	statusSuccess                = "success"
	statusError                  = "error"
	spanNameRead                 = "eventstore.read"
	spanNameAppend               = "eventstore.append"
	spanAttrOperation            = "operation"
	spanAttrEventCount           = "event_count"
	spanAttrEventType            = "event_type"
	spanAttrErrorType            = "error_type"
	spanAttrDurationMS           = "duration_ms"
	spanAttrLastSeenPosition     = "last_seen_position"
	spanAttrPositionFrom         = "position_from"
	spanAttrPositionTo           = "position_to"
	spanAttrExpectedEvents       = "expected_events"
	spanAttrRowsInserted         = "rows_inserted"
	spanAttrConditional          = "conditional"
	metricReadDuration           = "eventstore_read_duration"
	metricAppendDuration         = "eventstore_append_duration"
	metricEventsRead             = "eventstore_events_read"
	metricEventsAppended         = "eventstore_events_appended"
	metricDatabaseErrors         = "eventstore_database_errors"
	metricConcurrencyConflicts   = "eventstore_concurrency_conflicts"
	errorTypeDatabase            = "database_error"
	errorTypeScan                = "scan_error"
	errorTypeBuildQuery          = "build_query_error"
	errorTypeKeyExtraction       = "key_extraction_error"
	errorTypeConcurrencyConflict = "concurrency_conflict"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (es *EventStore) logQueryWithDuration(
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if es.logger != nil {
		es.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, es.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (es *EventStore) logOperation(action string, args ...any) {
	if es.logger != nil {
		es.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (es *EventStore) logError(
	message string,
	err error,
	args ...any,
) {
	if es.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		es.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (es *EventStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (es *EventStore) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if es.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          statusError,
			spanAttrErrorType: errorType,
		}

		// Use context-aware method if available
		if contextualCollector, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
			contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
		} else {
			es.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
		}
	}
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (es *EventStore) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if es.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
			contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
		} else {
			es.metricsCollector.RecordDuration(metricName, duration, labels)
		}
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (es *EventStore) recordValueMetricsContext(
	ctx context.Context,
	metricName string,
	value float64,
	operation,
	status string,
) {
	if es.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"status":          status,
		}

		// Use context-aware method if available
		if contextualCollector, ok := es.metricsCollector.(eventstore.ContextualMetricsCollector); ok {
			contextualCollector.RecordValueContext(ctx, metricName, value, labels)
		} else {
			es.metricsCollector.RecordValue(metricName, value, labels)
		}
	}
}

// recordConcurrencyConflictMetrics records concurrency conflict metrics if the metrics collector is configured.
func (es *EventStore) recordConcurrencyConflictMetrics(operation string) {
	if es.metricsCollector != nil {
		labels := map[string]string{
			spanAttrOperation: operation,
			"conflict_type":   "concurrency",
		}
		es.metricsCollector.IncrementCounter(metricConcurrencyConflicts, labels)
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (es *EventStore) startTraceSpan(
	ctx context.Context,
	operation string,
	attrs map[string]string,
) (context.Context, SpanContext) {
	if es.tracingCollector != nil {
		return es.tracingCollector.StartSpan(ctx, operation, attrs)
	}

	return ctx, nil
}

// finishTraceSpan finishes a tracing span if the tracing collector is configured.
func (es *EventStore) finishTraceSpan(
	spanCtx SpanContext,
	status string,
	attrs map[string]string,
) {
	if es.tracingCollector != nil && spanCtx != nil {
		es.tracingCollector.FinishSpan(spanCtx, status, attrs)
	}
}

// === Tracing Observer Pattern ===
// These observers simplify tracing span management by encapsulating lifecycle complexity.

// readTracingObserver encapsulates tracing span lifecycle management for read operations.
type readTracingObserver struct {
	es   *EventStore
	span SpanContext
}

// appendTracingObserver encapsulates tracing span lifecycle management for append operations.
type appendTracingObserver struct {
	es   *EventStore
	span SpanContext
}

// startReadTracing creates a new tracing observer for read operations.
func (es *EventStore) startReadTracing(ctx context.Context) (*readTracingObserver, context.Context) {
	newCtx, span := es.startTraceSpan(ctx, spanNameRead, map[string]string{
		spanAttrOperation: operationRead,
	})

	return &readTracingObserver{
		es:   es,
		span: span,
	}, newCtx
}

// startAppendTracing creates a new tracing observer for append operations.
func (es *EventStore) startAppendTracing(
	ctx context.Context,
	events eventstore.StorableEvents,
	condition *eventstore.AppendCondition,
) (*appendTracingObserver, context.Context) {

	spanAttrs := map[string]string{
		spanAttrOperation:   operationAppend,
		spanAttrEventCount:  fmt.Sprintf("%d", len(events)),
		spanAttrConditional: fmt.Sprintf("%t", condition != nil),
	}

	if condition != nil {
		spanAttrs[spanAttrLastSeenPosition] = fmt.Sprintf("%d", condition.LastSeenPosition())
	}

	if len(events) > 0 {
		spanAttrs[spanAttrEventType] = events[0].EventType
	}

	newCtx, span := es.startTraceSpan(ctx, spanNameAppend, spanAttrs)

	return &appendTracingObserver{
		es:   es,
		span: span,
	}, newCtx
}

// finishError completes the read tracing span with error details.
func (rto *readTracingObserver) finishError(errorType string, duration time.Duration) {
	if rto.span == nil {
		return
	}

	rto.span.SetStatus(statusError)
	rto.span.AddAttribute(spanAttrErrorType, errorType)

	if duration > 0 {
		rto.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", rto.es.toMilliseconds(duration)))
	}

	rto.es.finishTraceSpan(rto.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// finishSuccess completes the read tracing span for successful operations.
func (rto *readTracingObserver) finishSuccess(
	eventStream eventstore.SequencedEvents,
	lastSeenPosition eventstore.Position,
	duration time.Duration,
) {
	if rto.span == nil {
		return
	}

	rto.span.SetStatus(statusSuccess)
	rto.span.AddAttribute(spanAttrEventCount, fmt.Sprintf("%d", len(eventStream)))
	rto.span.AddAttribute(spanAttrLastSeenPosition, fmt.Sprintf("%d", lastSeenPosition))
	rto.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", rto.es.toMilliseconds(duration)))

	rto.es.finishTraceSpan(rto.span, statusSuccess, map[string]string{
		spanAttrEventCount:       fmt.Sprintf("%d", len(eventStream)),
		spanAttrLastSeenPosition: fmt.Sprintf("%d", lastSeenPosition),
	})
}

// finishError completes the append operation's tracing span with error details.
func (ato *appendTracingObserver) finishError(errorType string, duration time.Duration) {
	if ato.span == nil {
		return
	}

	ato.span.SetStatus(statusError)
	ato.span.AddAttribute(spanAttrErrorType, errorType)

	if duration > 0 {
		ato.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", ato.es.toMilliseconds(duration)))
	}

	ato.es.finishTraceSpan(ato.span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// finishErrorWithAttrs completes the append operation's tracing span with error details and additional attributes.
func (ato *appendTracingObserver) finishErrorWithAttrs(errorType string, attrs map[string]string) {
	if ato.span == nil {
		return
	}

	ato.span.SetStatus(statusError)
	ato.span.AddAttribute(spanAttrErrorType, errorType)
	for key, value := range attrs {
		ato.span.AddAttribute(key, value)
	}

	allAttrs := map[string]string{spanAttrErrorType: errorType}
	for key, value := range attrs {
		allAttrs[key] = value
	}

	ato.es.finishTraceSpan(ato.span, statusError, allAttrs)
}

// finishSuccess completes the append operation's tracing span for successful operations.
func (ato *appendTracingObserver) finishSuccess(positionRange eventstore.PositionRange, duration time.Duration) {
	if ato.span == nil {
		return
	}

	ato.span.SetStatus(statusSuccess)
	ato.span.AddAttribute(spanAttrPositionFrom, fmt.Sprintf("%d", positionRange.From))
	ato.span.AddAttribute(spanAttrPositionTo, fmt.Sprintf("%d", positionRange.To))
	ato.span.AddAttribute(spanAttrDurationMS, fmt.Sprintf("%.2f", ato.es.toMilliseconds(duration)))

	ato.es.finishTraceSpan(ato.span, statusSuccess, map[string]string{
		spanAttrPositionFrom: fmt.Sprintf("%d", positionRange.From),
		spanAttrPositionTo:   fmt.Sprintf("%d", positionRange.To),
	})
}

// === Metrics Observer Pattern ===
// These observers simplify the metrics collection by encapsulating recording complexity.

// readMetricsObserver encapsulates the metrics collection for read operations.
type readMetricsObserver struct {
	es  *EventStore
	ctx context.Context
}

// appendMetricsObserver encapsulates the metrics collection for append operations.
type appendMetricsObserver struct {
	es  *EventStore
	ctx context.Context
}

// startReadMetrics creates a new metrics observer for read operations.
func (es *EventStore) startReadMetrics(ctx context.Context) *readMetricsObserver {
	return &readMetricsObserver{
		es:  es,
		ctx: ctx,
	}
}

// startAppendMetrics creates a new metrics observer for append operations.
func (es *EventStore) startAppendMetrics(ctx context.Context) *appendMetricsObserver {
	return &appendMetricsObserver{
		es:  es,
		ctx: ctx,
	}
}

// recordSuccess records all metrics for a successful read operation.
func (rmo *readMetricsObserver) recordSuccess(eventStream eventstore.SequencedEvents, duration time.Duration) {
	rmo.es.recordDurationMetricsContext(rmo.ctx, metricReadDuration, duration, operationRead, statusSuccess)
	rmo.es.recordValueMetricsContext(rmo.ctx, metricEventsRead, float64(len(eventStream)), operationRead, statusSuccess)
}

// recordError records all metrics for a failed read operation.
func (rmo *readMetricsObserver) recordError(errorType string, duration time.Duration) {
	rmo.es.recordDurationMetricsContext(rmo.ctx, metricReadDuration, duration, operationRead, statusError)
	rmo.es.recordErrorMetricsContext(rmo.ctx, operationRead, errorType)
}

// recordSuccess records all metrics for a successful append operation.
func (amo *appendMetricsObserver) recordSuccess(events eventstore.StorableEvents, duration time.Duration) {
	amo.es.recordDurationMetricsContext(amo.ctx, metricAppendDuration, duration, operationAppend, statusSuccess)
	amo.es.recordValueMetricsContext(amo.ctx, metricEventsAppended, float64(len(events)), operationAppend, statusSuccess)
}

// recordError records all metrics for a failed append operation.
func (amo *appendMetricsObserver) recordError(errorType string, duration time.Duration) {
	amo.es.recordDurationMetricsContext(amo.ctx, metricAppendDuration, duration, operationAppend, statusError)
	amo.es.recordErrorMetricsContext(amo.ctx, operationAppend, errorType)
}

// recordConcurrencyConflict records metrics for concurrency conflicts during append operations.
func (amo *appendMetricsObserver) recordConcurrencyConflict() {
	amo.es.recordConcurrencyConflictMetrics(operationAppend)
}

// === Contextual Logging ===
// These methods provide context-aware logging with automatic trace correlation when available.

// logQueryWithDurationContext logs SQL queries with execution time and context correlation.
func (es *EventStore) logQueryWithDurationContext(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if es.contextualLogger != nil {
		es.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, es.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperationContext logs operational information with context correlation.
func (es *EventStore) logOperationContext(ctx context.Context, action string, args ...any) {
	if es.contextualLogger != nil {
		es.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logErrorContext logs error information with context correlation.
func (es *EventStore) logErrorContext(
	ctx context.Context,
	message string,
	err error,
	args ...any,
) {
	if es.contextualLogger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		es.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}
