package otel

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func recordingTracer(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, tp.Tracer("rre-dashboard-test")
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestStartSpan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		span  string
		attrs []attribute.KeyValue
	}{
		{
			name:  "list fetch",
			span:  "sync.fetchList",
			attrs: []attribute.KeyValue{AttrListKind.String("metric")},
		},
		{
			name: "topic fetch for a corpus",
			span: "sync.fetchTopics",
			attrs: []attribute.KeyValue{
				AttrListKind.String("topic"),
				AttrCorpus.String("wiki"),
				AttrGeneration.Int64(7),
			},
		},
		{
			name: "query group fetch for a topic",
			span: "sync.fetchQueryGroups",
			attrs: []attribute.KeyValue{
				AttrListKind.String("query-group"),
				AttrCorpus.String("wiki"),
				AttrTopic.String("sports"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exporter, tracer := recordingTracer(t)
			_, span := StartSpan(context.Background(), tracer, tt.span, trace.WithAttributes(tt.attrs...))
			require.True(t, span.SpanContext().IsValid())
			span.End()

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.span, spans[0].Name)

			got := attrMap(spans[0].Attributes)
			for _, want := range tt.attrs {
				assert.Equal(t, want.Value, got[want.Key], "attribute %s", want.Key)
			}
		})
	}
}

func TestStartSpan_ChildOfCycle(t *testing.T) {
	t.Parallel()

	exporter, tracer := recordingTracer(t)
	ctx, cycle := StartSpan(context.Background(), tracer, "sync.RunCycle")
	_, fetch := StartSpan(ctx, tracer, "sync.fetchList")
	fetch.End()
	cycle.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "sync.fetchList", spans[0].Name)
	assert.Equal(t, cycle.SpanContext().TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, cycle.SpanContext().SpanID(), spans[0].Parent.SpanID())
}

func TestStartSpan_NilTracerKeepsParent(t *testing.T) {
	t.Parallel()

	_, tracer := recordingTracer(t)
	ctx, cycle := tracer.Start(context.Background(), "sync.RunCycle")
	defer cycle.End()

	resultCtx, span := StartSpan(ctx, nil, "sync.fetchList")
	assert.Equal(t, ctx, resultCtx)
	assert.Equal(t, cycle.SpanContext(), span.SpanContext())

	_, orphan := StartSpan(context.Background(), nil, "sync.fetchList")
	assert.False(t, orphan.SpanContext().IsValid())
	assert.NotPanics(t, func() { orphan.End() })
}

func TestRecordError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCode   codes.Code
		wantEvents int
	}{
		{name: "nil error leaves span untouched", err: nil, wantCode: codes.Unset},
		{name: "fetch failure marks span", err: errors.New("HTTP 503 for URL http://rre/corpusList"), wantCode: codes.Error, wantEvents: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exporter, tracer := recordingTracer(t)
			_, span := tracer.Start(context.Background(), "sync.fetchList")
			RecordError(span, tt.err)
			span.End()

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantCode, spans[0].Status.Code)
			require.Len(t, spans[0].Events, tt.wantEvents)
			if tt.wantEvents > 0 {
				assert.Equal(t, "exception", spans[0].Events[0].Name)
				assert.Equal(t, "operation failed", spans[0].Status.Description)
			}
		})
	}

	assert.NotPanics(t, func() { RecordError(nil, errors.New("boom")) })
}

func TestInjectHeaders(t *testing.T) {
	t.Parallel()

	_, tracer := recordingTracer(t)
	ctx, span := tracer.Start(context.Background(), "sync.fetchList")
	defer span.End()

	header := http.Header{}
	propagation.TraceContext{}.Inject(ctx, propagation.HeaderCarrier(header))
	want := header.Get("traceparent")
	require.NotEmpty(t, want)

	// the global propagator may be unset in this process; InjectHeaders must not fail either way
	out := http.Header{}
	assert.NotPanics(t, func() { InjectHeaders(ctx, out) })
	if got := out.Get("traceparent"); got != "" {
		assert.Equal(t, want, got)
	}
}
