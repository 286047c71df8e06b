package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zapcore"
)

//nolint:paralleltest // t.Setenv is incompatible with t.Parallel
func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		prefixed string
		plain    string
		expected slog.Level
	}{
		{name: "default", expected: slog.LevelInfo},
		{name: "prefixed debug", prefixed: "debug", expected: slog.LevelDebug},
		{name: "plain fallback", plain: "warn", expected: slog.LevelWarn},
		{name: "prefixed wins", prefixed: "error", plain: "debug", expected: slog.LevelError},
		{name: "case insensitive", prefixed: "WARNING", expected: slog.LevelWarn},
		{name: "invalid uses info", prefixed: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RRE_DASHBOARD_LOG_LEVEL", tt.prefixed)
			t.Setenv("LOG_LEVEL", tt.plain)
			assert.Equal(t, tt.expected, getLogLevel())
		})
	}
}

func TestZapLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, zapcore.Level(-4), zapLevel(slog.LevelDebug))
	assert.Equal(t, zapcore.InfoLevel, zapLevel(slog.LevelInfo))
	assert.Equal(t, zapcore.WarnLevel, zapLevel(slog.LevelWarn))
	assert.Equal(t, zapcore.ErrorLevel, zapLevel(slog.LevelError))
}

func TestNewZapLogger(t *testing.T) {
	t.Parallel()

	logger, err := newZapLogger(slog.LevelDebug)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.Level(-4)))

	logger, err = newZapLogger(slog.LevelWarn)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestTraceHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(&traceHandler{Handler: slog.NewJSONHandler(&buf, nil)}).With("component", "sync")

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "cycle")
	defer span.End()

	logger.InfoContext(ctx, "Refresh cycle finished")
	logger.Info("No span")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var withSpan, withoutSpan map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &withSpan))
	require.NoError(t, json.Unmarshal(lines[1], &withoutSpan))

	assert.Equal(t, span.SpanContext().TraceID().String(), withSpan["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), withSpan["span_id"])
	assert.Equal(t, "sync", withSpan["component"])
	assert.NotContains(t, withoutSpan, "trace_id")
}
