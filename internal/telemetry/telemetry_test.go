package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		opts             []Option
		expectNoOpTracer bool
		expectNoOpMeter  bool
		expectHandler    bool
		errorContains    string
	}{
		{
			name:             "returns no-op telemetry when no config provided",
			opts:             []Option{},
			expectNoOpTracer: true,
			expectNoOpMeter:  true,
		},
		{
			name:             "returns no-op telemetry when disabled",
			opts:             []Option{WithTelemetryConfig(&Config{Enabled: false})},
			expectNoOpTracer: true,
			expectNoOpMeter:  true,
		},
		{
			name: "returns no-op providers when tracing and metrics are disabled",
			opts: []Option{WithTelemetryConfig(&Config{
				Enabled: true,
				Tracing: &TracingConfig{Enabled: false},
				Metrics: &MetricsConfig{Enabled: false},
			})},
			expectNoOpTracer: true,
			expectNoOpMeter:  true,
		},
		{
			name: "prometheus metrics expose a scrape handler",
			opts: []Option{WithTelemetryConfig(&Config{
				Enabled: true,
				Metrics: &MetricsConfig{Enabled: true, Prometheus: true},
			})},
			expectNoOpTracer: true,
			expectHandler:    true,
		},
		{
			name: "invalid configuration is rejected",
			opts: []Option{WithTelemetryConfig(&Config{
				Enabled: true,
				Tracing: &TracingConfig{Enabled: true, Sampling: 2},
			})},
			errorContains: "invalid telemetry configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			tel, err := New(ctx, tt.opts...)
			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			defer func() { assert.NoError(t, tel.Shutdown(ctx)) }()

			_, noopTracer := tel.TracerProvider().(tracenoop.TracerProvider)
			assert.Equal(t, tt.expectNoOpTracer, noopTracer)
			_, noopMeter := tel.MeterProvider().(noop.MeterProvider)
			assert.Equal(t, tt.expectNoOpMeter, noopMeter)
			assert.NotNil(t, tel.Tracer("test"))

			if tt.expectHandler {
				assert.NotNil(t, tel.MetricsHandler())
			} else {
				assert.Nil(t, tel.MetricsHandler())
			}
		})
	}
}

func TestTelemetry_MetricsHandlerServesSyncMetrics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tel, err := New(ctx, WithTelemetryConfig(&Config{
		Enabled: true,
		Metrics: &MetricsConfig{Enabled: true, Prometheus: true},
	}))
	require.NoError(t, err)
	defer func() { _ = tel.Shutdown(ctx) }()

	metrics, err := NewSyncMetrics(tel.MeterProvider())
	require.NoError(t, err)
	metrics.RecordStaleResult(ctx, "topic")

	rr := httptest.NewRecorder()
	tel.MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "rre_dashboard_stale_results_total")
}

func TestTelemetry_ShutdownSDKProviders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	tel := &Telemetry{
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  mp,
	}
	require.NoError(t, tel.Shutdown(ctx))

	// the reader is closed along with the provider
	var rm metricdata.ResourceMetrics
	assert.Error(t, reader.Collect(ctx, &rm))
}
