package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry owns the tracer and meter providers of one dashboard process.
// Callers must Shutdown it on exit so batched spans and metrics are flushed.
type Telemetry struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider

	// nil unless the Prometheus exporter is active
	promRegistry *prometheus.Registry
}

// Option is a function that configures the telemetry setup
type Option func(*telemetryConfig)

type telemetryConfig struct {
	config   *Config
	upstream string
}

// WithTelemetryConfig sets the telemetry configuration
func WithTelemetryConfig(cfg *Config) Option {
	return func(tc *telemetryConfig) {
		tc.config = cfg
	}
}

// WithUpstreamURL tags traces and metrics with the watched evaluation server
func WithUpstreamURL(url string) Option {
	return func(tc *telemetryConfig) {
		tc.upstream = url
	}
}

// enabled reports whether any provider should be built at all
func (tc *telemetryConfig) enabled() bool {
	return tc.config != nil && tc.config.Enabled
}

// scrape reports whether metrics are served on /metrics
func (tc *telemetryConfig) scrape() bool {
	m := tc.config.Metrics
	return m != nil && m.Enabled && m.Prometheus
}

func (tc *telemetryConfig) tracerOptions() []TracerProviderOption {
	c := tc.config
	id := c.identity(tc.upstream)
	return []TracerProviderOption{
		WithTracerServiceName(id.name),
		WithTracerServiceVersion(id.version),
		WithTracerUpstream(id.upstream),
		WithTracingConfig(c.Tracing),
		WithTracerEndpoint(c.Endpoint),
		WithTracerInsecure(c.Insecure),
	}
}

func (tc *telemetryConfig) meterOptions(reg prometheus.Registerer) []MeterProviderOption {
	c := tc.config
	id := c.identity(tc.upstream)
	opts := []MeterProviderOption{
		WithMeterServiceName(id.name),
		WithMeterServiceVersion(id.version),
		WithMeterUpstream(id.upstream),
		WithMetricsConfig(c.Metrics),
		WithMeterEndpoint(c.Endpoint),
		WithMeterInsecure(c.Insecure),
	}
	if reg != nil {
		opts = append(opts, WithPrometheusRegisterer(reg))
	}
	return opts
}

// New builds the providers described by the options. Without a config, or
// with telemetry disabled, both providers are no-ops.
func New(ctx context.Context, opts ...Option) (*Telemetry, error) {
	tc := &telemetryConfig{}
	for _, opt := range opts {
		opt(tc)
	}

	if !tc.enabled() {
		slog.Debug("Telemetry disabled")
		tel := &Telemetry{}
		var err error
		if tel.tracerProvider, err = NewTracerProvider(ctx); err != nil {
			return nil, fmt.Errorf("failed to create no-op tracer provider: %w", err)
		}
		if tel.meterProvider, err = NewMeterProvider(ctx); err != nil {
			return nil, fmt.Errorf("failed to create no-op meter provider: %w", err)
		}
		return tel, nil
	}

	if err := tc.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
	}

	slog.Info("Initializing telemetry",
		"service_name", tc.config.GetServiceName(),
		"service_version", tc.config.GetServiceVersion(),
		"upstream", tc.upstream,
	)

	tel := &Telemetry{}
	if tc.scrape() {
		tel.promRegistry = prometheus.NewRegistry()
	}

	tp, err := NewTracerProvider(ctx, tc.tracerOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}
	tel.tracerProvider = tp

	var reg prometheus.Registerer
	if tel.promRegistry != nil {
		reg = tel.promRegistry
	}
	mp, err := NewMeterProvider(ctx, tc.meterOptions(reg)...)
	if err != nil {
		_ = shutdownProvider(ctx, tp)
		return nil, fmt.Errorf("failed to create meter provider: %w", err)
	}
	tel.meterProvider = mp

	slog.Info("Telemetry initialized successfully")
	return tel, nil
}

// TracerProvider returns the configured tracer provider
func (t *Telemetry) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// MeterProvider returns the configured meter provider
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	return t.meterProvider
}

// Tracer returns a named tracer from the tracer provider
func (t *Telemetry) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return t.tracerProvider.Tracer(name, opts...)
}

// MetricsHandler returns the Prometheus scrape handler, or nil when the
// Prometheus exporter is not enabled
func (t *Telemetry) MetricsHandler() http.Handler {
	if t.promRegistry == nil {
		return nil
	}
	return promhttp.HandlerFor(t.promRegistry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops both providers. No-op providers are skipped.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down telemetry")

	err := errors.Join(
		wrapShutdown("tracer", shutdownProvider(ctx, t.tracerProvider)),
		wrapShutdown("meter", shutdownProvider(ctx, t.meterProvider)),
	)
	if err != nil {
		return err
	}

	slog.Info("Telemetry shutdown complete")
	return nil
}

// shutdownProvider stops p when it is an SDK provider
func shutdownProvider(ctx context.Context, p any) error {
	if s, ok := p.(interface{ Shutdown(context.Context) error }); ok {
		return s.Shutdown(ctx)
	}
	return nil
}

func wrapShutdown(kind string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to shutdown %s provider: %w", kind, err)
}
