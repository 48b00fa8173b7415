package logger

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RunIDKey identifies one sync run (a batch, a scheduled pass, a CLI call)
	RunIDKey contextKey = "sync_run_id"
	// TriggerKey records what started the run: scheduler, manual or cli
	TriggerKey contextKey = "sync_trigger"
)

// Trigger sources
const (
	TriggerScheduler = "scheduler"
	TriggerManual    = "manual"
	TriggerCLI       = "cli"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, log)
}

// FromContext retrieves the logger from context, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRunID tags the context with a sync run ID. An empty id generates one.
func WithRunID(ctx context.Context, log *zap.Logger, runID string) (context.Context, *zap.Logger) {
	if runID == "" {
		runID = uuid.NewString()
	}
	ctx = context.WithValue(ctx, RunIDKey, runID)
	enriched := log.With(zap.String("sync_run_id", runID))
	return WithContext(ctx, enriched), enriched
}

// WithTrigger records the run's trigger source
func WithTrigger(ctx context.Context, log *zap.Logger, trigger string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, TriggerKey, trigger)
	enriched := log.With(zap.String("sync_trigger", trigger))
	return WithContext(ctx, enriched), enriched
}

// StartRun is WithTrigger followed by WithRunID with a fresh ID
func StartRun(ctx context.Context, log *zap.Logger, trigger string) (context.Context, *zap.Logger) {
	ctx, log = WithTrigger(ctx, log, trigger)
	return WithRunID(ctx, log, "")
}

// GetRunID retrieves the sync run ID from context
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// GetTrigger retrieves the trigger source from context
func GetTrigger(ctx context.Context) string {
	if t, ok := ctx.Value(TriggerKey).(string); ok {
		return t
	}
	return ""
}

// GetTraceID extracts the trace ID from the context's span, or "".
func GetTraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}

// GetSpanID extracts the span ID from the context's span, or "".
func GetSpanID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.SpanID().String()
}

// ContextLogger wraps a zap logger and injects trace_id and span_id from
// the context into every entry.
type ContextLogger struct {
	ctx    context.Context
	logger *zap.Logger
}

// L returns a ContextLogger from the given context.
//
//	logger.L(ctx).Info("order synced", zap.String("order_no", no))
func L(ctx context.Context) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: FromContext(ctx)}
}

// WithLogger returns a ContextLogger using the provided logger
func WithLogger(ctx context.Context, log *zap.Logger) *ContextLogger {
	return &ContextLogger{ctx: ctx, logger: log}
}

func (cl *ContextLogger) enrichedLogger() *zap.Logger {
	l := cl.logger
	if l == nil {
		l = zap.NewNop()
	}

	if spanCtx := trace.SpanContextFromContext(cl.ctx); spanCtx.IsValid() {
		l = l.With(
			zap.String("trace_id", spanCtx.TraceID().String()),
			zap.String("span_id", spanCtx.SpanID().String()),
		)
	}
	return l
}

// With creates a child ContextLogger with additional fields.
func (cl *ContextLogger) With(fields ...zap.Field) *ContextLogger {
	base := cl.logger
	if base == nil {
		base = zap.NewNop()
	}
	return &ContextLogger{ctx: cl.ctx, logger: base.With(fields...)}
}

func (cl *ContextLogger) Debug(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Debug(msg, fields...)
}

func (cl *ContextLogger) Info(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Info(msg, fields...)
}

func (cl *ContextLogger) Warn(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Warn(msg, fields...)
}

func (cl *ContextLogger) Error(msg string, fields ...zap.Field) {
	cl.enrichedLogger().Error(msg, fields...)
}

// Zap returns the underlying logger enriched with trace context
func (cl *ContextLogger) Zap() *zap.Logger {
	return cl.enrichedLogger()
}
