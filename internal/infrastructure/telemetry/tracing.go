// Package telemetry provides OpenTelemetry tracing and metrics for the sync
// services. When telemetry is disabled the global no-op providers stay in
// place and every helper here is safe to call.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of service spans and the no-op
// sync metrics.
const TracerName = "erp-syncengine"

// SpanOption configures a span at start
type SpanOption = trace.SpanStartOption

// WithAttribute sets one attribute on the span at start. Values are
// converted the same way as SetAttributes.
func WithAttribute(key string, value any) SpanOption {
	return trace.WithAttributes(toAttribute(key, value))
}

// StartSpan starts an internal span on the global tracer. The caller must
// End it.
func StartSpan(ctx context.Context, name string, opts ...SpanOption) (context.Context, trace.Span) {
	opts = append([]SpanOption{trace.WithSpanKind(trace.SpanKindInternal)}, opts...)
	return otel.Tracer(TracerName).Start(ctx, name, opts...)
}

// StartServiceSpan starts a span named {service}.{method}, e.g. "order_sync.sync".
func StartServiceSpan(ctx context.Context, service, method string, opts ...SpanOption) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, method), opts...)
}

// SetAttributes adds alternating key/value pairs to a span. Pairs whose
// key is not a string are skipped.
func SetAttributes(span trace.Span, keyValues ...any) {
	if span == nil {
		return
	}
	span.SetAttributes(pairs(keyValues)...)
}

func SetAttribute(span trace.Span, key string, value any) {
	if span == nil {
		return
	}
	span.SetAttributes(toAttribute(key, value))
}

// RecordError records err on the span and sets the span status to error.
func RecordError(span trace.Span, err error, opts ...trace.EventOption) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err, opts...)
	span.SetStatus(codes.Error, err.Error())
}

// RecordFailure marks the span failed with a message when an operation
// reports failure through its result rather than a Go error.
func RecordFailure(span trace.Span, message string) {
	if span == nil || message == "" {
		return
	}
	span.SetStatus(codes.Error, message)
}

// SetOK marks the span as successful.
func SetOK(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// AddEvent adds an event carrying alternating key/value pairs
func AddEvent(span trace.Span, name string, keyValues ...any) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(pairs(keyValues)...))
}

// GetTraceID returns the trace ID of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}

func pairs(keyValues []any) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for i := 1; i < len(keyValues); i += 2 {
		if key, ok := keyValues[i-1].(string); ok {
			attrs = append(attrs, toAttribute(key, keyValues[i]))
		}
	}
	return attrs
}

func toAttribute(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case bool:
		return attribute.Bool(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	}
	return attribute.String(key, fmt.Sprint(value))
}

// Span attribute keys used by the sync services
const (
	SpanAttrOrderID      = "order_id"
	SpanAttrErpOrderNo   = "erp_order_no"
	SpanAttrEntityKind   = "entity_kind"
	SpanAttrLocalID      = "local_id"
	SpanAttrRemoteCode   = "remote_code"
	SpanAttrIncremental  = "incremental"
	SpanAttrItemCount    = "item_count"
	SpanAttrBatchSize    = "batch_size"
	SpanAttrAlreadyExist = "already_existed"
)
