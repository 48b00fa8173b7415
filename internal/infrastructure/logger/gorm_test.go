package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNewGormLogger(t *testing.T) {
	gormLog := NewGormLogger(zap.NewNop(), StoreErp, gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
		WithRedactedSQL(true),
	)

	assert.Equal(t, StoreErp, gormLog.store)
	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	assert.Equal(t, 500*time.Millisecond, gormLog.slowThreshold)
	assert.False(t, gormLog.ignoreRecordNotFoundError)
	assert.True(t, gormLog.redactSQL)
}

func TestGormLogger_LogMode(t *testing.T) {
	gormLog := NewGormLogger(zap.NewNop(), StoreLocal, gormlogger.Info)
	changed, ok := gormLog.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, gormLog.logLevel)
	assert.Equal(t, gormlogger.Warn, changed.logLevel)
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return `SELECT * FROM "CUST" WHERE CUS_NO = 'TEST_C0001'`, 1 }

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		wantMsg string
	}{
		{name: "error", level: gormlogger.Error, begin: time.Now(), err: errors.New("deadlock"), wantMsg: "SQL failed"},
		{name: "not found ignored", level: gormlogger.Error, begin: time.Now(), err: gormlogger.ErrRecordNotFound},
		{name: "slow", level: gormlogger.Warn, opts: []GormLoggerOption{WithSlowThreshold(time.Nanosecond)}, begin: time.Now().Add(-time.Second), wantMsg: "Slow SQL"},
		{name: "normal", level: gormlogger.Info, begin: time.Now(), wantMsg: "SQL executed"},
		{name: "silent", level: gormlogger.Silent, begin: time.Now(), err: errors.New("ignored")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			gormLog := NewGormLogger(zap.New(core), StoreErp, tt.level, tt.opts...)

			gormLog.Trace(context.Background(), tt.begin, query, tt.err)

			if tt.wantMsg == "" {
				assert.Empty(t, recorded.All())
				return
			}
			entries := recorded.All()
			require.Len(t, entries, 1)
			assert.Contains(t, entries[0].Message, tt.wantMsg)
			assert.Equal(t, StoreErp, entries[0].ContextMap()["store"])
		})
	}
}

func TestGormLogger_TraceCarriesRunIDAndRedacts(t *testing.T) {
	core, recorded := observer.New(zapcore.DebugLevel)
	gormLog := NewGormLogger(zap.New(core), StoreErp, gormlogger.Info, WithRedactedSQL(true))

	ctx, _ := WithRunID(context.Background(), zap.NewNop(), "run-42")
	gormLog.Trace(ctx, time.Now(), func() (string, int64) { return "INSERT INTO CUST VALUES ('x')", 1 }, nil)

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "run-42", fields["sync_run_id"])
	assert.NotContains(t, fields, "sql")
	assert.EqualValues(t, len("INSERT INTO CUST VALUES ('x')"), fields["sql_len"])
}

func TestGormLogger_Printf(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	gormLog := NewGormLogger(zap.New(core), StoreLocal, gormlogger.Warn)

	gormLog.Info(context.Background(), "hidden %d", 1)
	gormLog.Warn(context.Background(), "warning %d", 42)
	gormLog.Error(context.Background(), "broken")

	entries := recorded.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "warning 42", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Error, MapGormLogLevel("error"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("other"))
}
