// Package telemetry provides OpenTelemetry instrumentation for the dashboard client.
// It supports configurable tracing and metrics with OTLP and Prometheus exporters.
package telemetry

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/stacklok/rre-dashboard/internal/versions"
)

const (
	// DefaultServiceName is the default service name for telemetry
	DefaultServiceName = "rre-dashboard"

	// DefaultEndpoint is the default OTLP endpoint for telemetry
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the default trace sampling rate. A cycle produces one
	// root span plus one span per fetched branch, so 5% keeps a polling
	// dashboard cheap to trace.
	DefaultSampling = 0.05
)

// Config is the telemetry section of the dashboard configuration
type Config struct {
	// Enabled gates every provider; when false both are no-ops
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// ServiceName identifies this dashboard instance; defaults to "rre-dashboard"
	ServiceName string `mapstructure:"serviceName" yaml:"serviceName,omitempty"`

	// ServiceVersion defaults to the version of the running binary
	ServiceVersion string `mapstructure:"serviceVersion" yaml:"serviceVersion,omitempty"`

	// Endpoint is the OTLP collector endpoint, "host:port" over HTTP.
	// An empty endpoint disables OTLP export while keeping Prometheus.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`

	// Insecure sends OTLP over plain HTTP
	Insecure bool `mapstructure:"insecure" yaml:"insecure,omitempty"`

	// Tracing covers refresh cycle and fetch spans
	Tracing *TracingConfig `mapstructure:"tracing" yaml:"tracing,omitempty"`

	// Metrics covers sync and control API instruments
	Metrics *MetricsConfig `mapstructure:"metrics" yaml:"metrics,omitempty"`
}

// TracingConfig defines tracing-specific configuration
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Sampling is the ratio of refresh cycles traced (0.0 to 1.0)
	Sampling float64 `mapstructure:"sampling" yaml:"sampling,omitempty"`
}

// MetricsConfig defines metrics-specific configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Prometheus exposes metrics on the control API's /metrics route
	Prometheus bool `mapstructure:"prometheus" yaml:"prometheus,omitempty"`
}

// SetDefaults registers the telemetry keys below prefix
func SetDefaults(v *viper.Viper, prefix string) {
	key := func(k string) string { return prefix + "." + k }

	v.SetDefault(key("enabled"), false)
	v.SetDefault(key("serviceName"), DefaultServiceName)
	v.SetDefault(key("serviceVersion"), "")
	v.SetDefault(key("endpoint"), DefaultEndpoint)
	v.SetDefault(key("insecure"), false)
	v.SetDefault(key("metrics.enabled"), false)
	v.SetDefault(key("metrics.prometheus"), true)
	v.SetDefault(key("tracing.enabled"), false)
	v.SetDefault(key("tracing.sampling"), DefaultSampling)
}

// GetServiceName returns the service name, using default if not specified
func (c *Config) GetServiceName() string {
	if c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the configured version or the binary's own
func (c *Config) GetServiceVersion() string {
	if c.ServiceVersion == "" {
		return versions.GetVersionInfo().Version
	}
	return c.ServiceVersion
}

// identity describes this dashboard on every exported signal
func (c *Config) identity(upstream string) serviceIdentity {
	return serviceIdentity{
		name:     c.GetServiceName(),
		version:  c.GetServiceVersion(),
		upstream: upstream,
	}
}

// GetSampling returns the sampling ratio.
// If Sampling is 0 (unset), it returns DefaultSampling.
func (c *TracingConfig) GetSampling() float64 {
	if c.Sampling == 0.0 {
		return DefaultSampling
	}
	return c.Sampling
}

// Validate checks that every enabled signal has somewhere to go. A nil or
// disabled config is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var errs []error
	if err := c.Tracing.validate(c.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("tracing: %w", err))
	}
	if err := c.Metrics.validate(c.Endpoint); err != nil {
		errs = append(errs, fmt.Errorf("metrics: %w", err))
	}
	return errors.Join(errs...)
}

func (c *TracingConfig) validate(endpoint string) error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.Sampling < 0 || c.Sampling > 1.0 {
		return fmt.Errorf("sampling must be between 0.0 and 1.0, got %f", c.Sampling)
	}
	// spans have no pull exporter
	if endpoint == "" {
		return errors.New("endpoint is required when tracing is enabled")
	}
	return nil
}

func (c *MetricsConfig) validate(endpoint string) error {
	if c == nil || !c.Enabled {
		return nil
	}
	if endpoint == "" && !c.Prometheus {
		return errors.New("at least one exporter is required: set an endpoint or enable prometheus")
	}
	return nil
}
