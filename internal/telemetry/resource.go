package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/stacklok/rre-dashboard/internal/versions"
)

// UpstreamURLKey tags every signal with the evaluation server being watched,
// so several dashboards can share one collector
const UpstreamURLKey = attribute.Key("rre.server.url")

// serviceIdentity is the resource description shared by traces and metrics
type serviceIdentity struct {
	name     string
	version  string
	upstream string
}

func defaultIdentity() serviceIdentity {
	return serviceIdentity{name: DefaultServiceName, version: versions.GetVersionInfo().Version}
}

func (id serviceIdentity) resource(ctx context.Context) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(id.name),
		semconv.ServiceVersion(id.version),
	}
	if id.upstream != "" {
		attrs = append(attrs, UpstreamURLKey.String(id.upstream))
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(attrs...),
		resource.WithHost(),
		resource.WithTelemetrySDK(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
