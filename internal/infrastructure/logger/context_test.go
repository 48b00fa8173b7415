package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fieldMap(entry observer.LoggedEntry) map[string]any {
	return entry.ContextMap()
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	log := zap.NewExample()
	ctx := WithContext(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}

func TestWithRunID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, log := WithRunID(context.Background(), zap.New(core), "run-1")
	assert.Equal(t, "run-1", GetRunID(ctx))

	log.Info("batch started")
	FromContext(ctx).Info("from context")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", fieldMap(entries[0])["sync_run_id"])
	assert.Equal(t, "run-1", fieldMap(entries[1])["sync_run_id"])
}

func TestWithRunID_GeneratesID(t *testing.T) {
	ctx, _ := WithRunID(context.Background(), zap.NewNop(), "")
	assert.Len(t, GetRunID(ctx), 36)
}

func TestStartRun(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, log := StartRun(context.Background(), zap.New(core), TriggerScheduler)
	log.Info("tick")

	assert.Equal(t, TriggerScheduler, GetTrigger(ctx))
	assert.NotEmpty(t, GetRunID(ctx))

	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, TriggerScheduler, fields["sync_trigger"])
	assert.Equal(t, GetRunID(ctx), fields["sync_run_id"])
}

func TestGetters_Empty(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))
	assert.Empty(t, GetTrigger(ctx))
	assert.Empty(t, GetTraceID(ctx))
	assert.Empty(t, GetSpanID(ctx))
}

func spanContext(t *testing.T) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("0102030405060708")
	require.NoError(t, err)
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
}

func TestContextLogger_InjectsTrace(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	ctx := trace.ContextWithSpanContext(context.Background(), spanContext(t))
	ctx = WithContext(ctx, zap.New(core))

	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", GetTraceID(ctx))
	assert.Equal(t, "0102030405060708", GetSpanID(ctx))

	L(ctx).With(zap.String("order_no", "SO20240301")).Warn("retry")

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := fieldMap(entries[0])
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", fields["trace_id"])
	assert.Equal(t, "0102030405060708", fields["span_id"])
	assert.Equal(t, "SO20240301", fields["order_no"])
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := WithLogger(context.Background(), nil)
	assert.NotPanics(t, func() {
		cl.Info("nothing")
		cl.With(zap.Int("n", 1)).Error("still nothing")
	})
	assert.NotNil(t, cl.Zap())
}
