package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SyncMetricsMeterName is the name used for the sync metrics meter
	SyncMetricsMeterName = "github.com/stacklok/rre-dashboard/sync"
)

// SyncMetrics holds the OpenTelemetry instruments for refresh cycle metrics
type SyncMetrics struct {
	cycleDuration metric.Float64Histogram
	fetchDuration metric.Float64Histogram
	listSize      metric.Int64Gauge
	itemsAdded    metric.Int64Counter
	staleResults  metric.Int64Counter
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	cycleDuration, err := meter.Float64Histogram(
		"rre_dashboard_cycle_duration_seconds",
		metric.WithDescription("Duration of refresh cycles in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, err
	}

	fetchDuration, err := meter.Float64Histogram(
		"rre_dashboard_fetch_duration_seconds",
		metric.WithDescription("Duration of upstream list and data fetches in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30),
	)
	if err != nil {
		return nil, err
	}

	listSize, err := meter.Int64Gauge(
		"rre_dashboard_list_size",
		metric.WithDescription("Number of items held in each filter list"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	itemsAdded, err := meter.Int64Counter(
		"rre_dashboard_items_added_total",
		metric.WithDescription("Total number of items appended to filter lists"),
		metric.WithUnit("{item}"),
	)
	if err != nil {
		return nil, err
	}

	staleResults, err := meter.Int64Counter(
		"rre_dashboard_stale_results_total",
		metric.WithDescription("Fetch results discarded because a newer refresh cycle started"),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		cycleDuration: cycleDuration,
		fetchDuration: fetchDuration,
		listSize:      listSize,
		itemsAdded:    itemsAdded,
		staleResults:  staleResults,
	}, nil
}

// RecordCycle records the duration and outcome of a whole refresh cycle
func (m *SyncMetrics) RecordCycle(ctx context.Context, trigger string, duration time.Duration, success bool) {
	if m == nil || m.cycleDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("trigger", trigger),
		attribute.Bool("success", success),
	}

	m.cycleDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordFetch records the duration and outcome of a single upstream fetch
func (m *SyncMetrics) RecordFetch(ctx context.Context, kind string, duration time.Duration, success bool) {
	if m == nil || m.fetchDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("kind", kind),
		attribute.Bool("success", success),
	}

	m.fetchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordMerge records how many items a merge appended and the resulting list size
func (m *SyncMetrics) RecordMerge(ctx context.Context, kind string, added, size int) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("kind", kind))
	if added > 0 {
		m.itemsAdded.Add(ctx, int64(added), attrs)
	}
	m.listSize.Record(ctx, int64(size), attrs)
}

// RecordStaleResult counts a fetch result dropped by the generation check
func (m *SyncMetrics) RecordStaleResult(ctx context.Context, kind string) {
	if m == nil || m.staleResults == nil {
		return
	}

	m.staleResults.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
