package telemetry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"size:20"`
}

func setupTracedDB(t *testing.T, cfg DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))

	require.NoError(t, NewDBTracingPlugin(cfg, nil).Register(db))
	return db, sr
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db, sr := setupTracedDB(t, DefaultDBTracingConfig())

	var rows []tracedRow
	require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)
	assert.Empty(t, sr.Ended())
}

func TestDBTracingPlugin_SpansUnderParent(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBName = "website"
	db, sr := setupTracedDB(t, cfg)

	ctx, parent := otel.Tracer("test").Start(context.Background(), "product_sync.run")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Code: "P001"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	var children int
	for _, s := range sr.Ended() {
		if s.Parent().SpanID() == parent.SpanContext().SpanID() {
			children++
		}
	}
	assert.Equal(t, 2, children)
}

func TestDBTracingPlugin_SlowQueryAndErrors(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.SlowQueryThresh = time.Nanosecond
	db, sr := setupTracedDB(t, cfg)

	var rows []tracedRow
	require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)
	err := db.WithContext(context.Background()).Table("missing_table").Find(&rows).Error
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 2)

	var slow bool
	for _, kv := range spans[0].Attributes() {
		if kv.Key == "db.slow_query" {
			slow = kv.Value.AsBool()
		}
	}
	assert.True(t, slow)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
