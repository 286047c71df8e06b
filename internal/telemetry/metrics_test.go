package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestReader(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestNewSyncMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()
		metrics, err := NewSyncMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("nil metrics are safe to record on", func(t *testing.T) {
		t.Parallel()
		var metrics *SyncMetrics
		ctx := context.Background()
		assert.NotPanics(t, func() {
			metrics.RecordCycle(ctx, "periodic", time.Second, true)
			metrics.RecordFetch(ctx, "metric", time.Second, true)
			metrics.RecordMerge(ctx, "metric", 1, 1)
			metrics.RecordStaleResult(ctx, "topic")
		})
	})
}

func TestSyncMetrics_Record(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reader, mp := newTestReader(t)
	metrics, err := NewSyncMetrics(mp)
	require.NoError(t, err)

	metrics.RecordCycle(ctx, "startup", 2*time.Second, true)
	metrics.RecordFetch(ctx, "topic", 100*time.Millisecond, true)
	metrics.RecordFetch(ctx, "topic", 200*time.Millisecond, false)
	metrics.RecordMerge(ctx, "topic", 3, 3)
	metrics.RecordMerge(ctx, "topic", 0, 3)
	metrics.RecordStaleResult(ctx, "queryGroup")
	metrics.RecordStaleResult(ctx, "queryGroup")

	got := collect(t, reader)

	cycles, ok := got["rre_dashboard_cycle_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, cycles.DataPoints, 1)
	assert.Equal(t, uint64(1), cycles.DataPoints[0].Count)

	fetches, ok := got["rre_dashboard_fetch_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	// success and failure are separate series
	assert.Len(t, fetches.DataPoints, 2)

	added, ok := got["rre_dashboard_items_added_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, added.DataPoints, 1)
	assert.Equal(t, int64(3), added.DataPoints[0].Value)

	size, ok := got["rre_dashboard_list_size"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, size.DataPoints, 1)
	assert.Equal(t, int64(3), size.DataPoints[0].Value)

	stale, ok := got["rre_dashboard_stale_results_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, stale.DataPoints, 1)
	assert.Equal(t, int64(2), stale.DataPoints[0].Value)
	kind, _ := stale.DataPoints[0].Attributes.Value("kind")
	assert.Equal(t, "queryGroup", kind.AsString())
}
