package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/dcbdemo/shopping-cart-engine-go/eventstore"
)

// MetricsCollector implements both eventstore.MetricsCollector and
// eventstore.ContextualMetricsCollector using OpenTelemetry metrics.
// Instruments are created lazily on first use and cached per name.
type MetricsCollector struct {
	meter      metric.Meter
	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

// NewMetricsCollector creates a new metrics collector using the provided OpenTelemetry meter.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:      meter,
		histograms: make(map[string]metric.Float64Histogram),
		counters:   make(map[string]metric.Int64Counter),
		gauges:     make(map[string]metric.Float64Gauge),
	}
}

// RecordDuration records a duration metric as a histogram in seconds.
func (c *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	c.RecordDurationContext(context.Background(), metricName, duration, labels)
}

// IncrementCounter increments a counter metric by one.
func (c *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	c.IncrementCounterContext(context.Background(), metricName, labels)
}

// RecordValue records a value metric as a gauge.
func (c *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	c.RecordValueContext(context.Background(), metricName, value, labels)
}

// RecordDurationContext records a duration metric with context for trace correlation.
func (c *MetricsCollector) RecordDurationContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	labels map[string]string,
) {
	histogram, err := c.histogram(metricName)
	if err != nil {
		return
	}

	histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(toAttributes(labels)...))
}

// IncrementCounterContext increments a counter metric with context for trace correlation.
func (c *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	counter, err := c.counter(metricName)
	if err != nil {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
}

// RecordValueContext records a value metric with context for trace correlation.
func (c *MetricsCollector) RecordValueContext(
	ctx context.Context,
	metricName string,
	value float64,
	labels map[string]string,
) {
	gauge, err := c.gauge(metricName)
	if err != nil {
		return
	}

	gauge.Record(ctx, value, metric.WithAttributes(toAttributes(labels)...))
}

func (c *MetricsCollector) histogram(metricName string) (metric.Float64Histogram, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if histogram, ok := c.histograms[metricName]; ok {
		return histogram, nil
	}

	histogram, err := c.meter.Float64Histogram(metricName, metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	c.histograms[metricName] = histogram

	return histogram, nil
}

func (c *MetricsCollector) counter(metricName string) (metric.Int64Counter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if counter, ok := c.counters[metricName]; ok {
		return counter, nil
	}

	counter, err := c.meter.Int64Counter(metricName)
	if err != nil {
		return nil, err
	}

	c.counters[metricName] = counter

	return counter, nil
}

func (c *MetricsCollector) gauge(metricName string) (metric.Float64Gauge, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gauge, ok := c.gauges[metricName]; ok {
		return gauge, nil
	}

	gauge, err := c.meter.Float64Gauge(metricName)
	if err != nil {
		return nil, err
	}

	c.gauges[metricName] = gauge

	return gauge, nil
}

func toAttributes(labels map[string]string) []attribute.KeyValue {
	attributes := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attributes = append(attributes, attribute.String(key, value))
	}

	return attributes
}

// Ensure MetricsCollector implements both metrics interfaces.
var (
	_ eventstore.MetricsCollector           = (*MetricsCollector)(nil)
	_ eventstore.ContextualMetricsCollector = (*MetricsCollector)(nil)
)
