package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// Result label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Product item label values
const (
	ItemGroup    = "group"
	ItemSku      = "sku"
	ItemCategory = "category"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionSkipped = "skipped"
)

// Metric attribute keys
var (
	AttrResult    = attribute.Key("result")
	AttrKind      = attribute.Key("kind")
	AttrItem      = attribute.Key("item")
	AttrAction    = attribute.Key("action")
	AttrOperation = attribute.Key("operation")
)

// SyncDurationBuckets covers single order exports (sub-second) up to full
// product imports (minutes).
var SyncDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 300, 900}

// SyncMetrics records ERP sync activity. A nil *SyncMetrics records nothing.
type SyncMetrics struct {
	orders       metric.Int64Counter
	entities     metric.Int64Counter
	productItems metric.Int64Counter
	duration     metric.Float64Histogram
}

// NewSyncMetrics registers the sync instruments on meter.
func NewSyncMetrics(meter metric.Meter) (*SyncMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var m SyncMetrics
	var errs []error
	counter := func(name, desc, unit string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
		if err != nil {
			errs = append(errs, fmt.Errorf("counter %s: %w", name, err))
		}
		return c
	}

	m.orders = counter("erp_sync_orders_total", "Orders exported to the ERP, by result", "{orders}")
	m.entities = counter("erp_sync_entities_provisioned_total", "Customers and salespersons created in the ERP on demand", "{entities}")
	m.productItems = counter("erp_sync_product_items_total", "Local catalog rows written by product import", "{items}")

	h, err := meter.Float64Histogram("erp_sync_duration_seconds",
		metric.WithDescription("Wall time of sync operations"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(SyncDurationBuckets...),
	)
	if err != nil {
		errs = append(errs, fmt.Errorf("histogram erp_sync_duration_seconds: %w", err))
	}
	m.duration = h

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &m, nil
}

// NewNoopSyncMetrics returns metrics bound to a no-op meter.
func NewNoopSyncMetrics() *SyncMetrics {
	m, _ := NewSyncMetrics(noop.NewMeterProvider().Meter(TracerName))
	return m
}

// RecordOrder counts one order export attempt.
func (m *SyncMetrics) RecordOrder(ctx context.Context, success bool) {
	if m == nil {
		return
	}
	result := ResultFailure
	if success {
		result = ResultSuccess
	}
	m.orders.Add(ctx, 1, metric.WithAttributes(AttrResult.String(result)))
}

// RecordEntityProvisioned counts one remote customer or salesperson created.
func (m *SyncMetrics) RecordEntityProvisioned(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.entities.Add(ctx, 1, metric.WithAttributes(AttrKind.String(kind)))
}

// RecordProductItems counts n catalog rows of one item type and action.
func (m *SyncMetrics) RecordProductItems(ctx context.Context, item, action string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.productItems.Add(ctx, int64(n), metric.WithAttributes(AttrItem.String(item), AttrAction.String(action)))
}

// RecordDuration records how long one sync operation took.
func (m *SyncMetrics) RecordDuration(ctx context.Context, operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(AttrOperation.String(operation)))
}
