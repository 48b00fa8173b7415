package erpdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConnectionManager_Get(t *testing.T) {
	mgr, _ := newTestManager(t)

	db, err := mgr.Get(bg)
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM CUST").Row().Scan(&n))
	assert.Zero(t, n)

	again, err := mgr.Get(bg)
	require.NoError(t, err)
	assert.Same(t, db.Statement.ConnPool, again.Statement.ConnPool)
}

func TestConnectionManager_ReopensDeadPool(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mgr, _ := newTestManager(t)
	mgr.logger = zap.New(core)

	db, err := mgr.Get(bg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	reopened, err := mgr.Get(bg)
	require.NoError(t, err)
	var n int64
	require.NoError(t, reopened.Raw("SELECT COUNT(*) FROM SALM").Row().Scan(&n))
	assert.Equal(t, 1, logs.FilterMessage("ERP connection lost, reopening").Len())
}

func TestConnectionManager_CancelledCallerKeepsPool(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	mgr, _ := newTestManager(t)
	mgr.logger = zap.New(core)

	handle, err := mgr.Get(bg)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(bg)
	cancel()
	_, err = mgr.Get(cancelled)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, shared.ErrUnavailable)

	var n int64
	require.NoError(t, handle.Raw("SELECT COUNT(*) FROM CUST").Row().Scan(&n), "other users keep their handle")
	assert.Zero(t, logs.FilterMessage("ERP connection lost, reopening").Len())

	again, err := mgr.Get(bg)
	require.NoError(t, err)
	assert.Same(t, handle.Statement.ConnPool, again.Statement.ConnPool)
}

func TestConnectionManager_Close(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, err := mgr.Get(bg)
	require.NoError(t, err)

	require.NoError(t, mgr.Close())
	require.NoError(t, mgr.Close())

	_, err = mgr.Get(bg)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestConnectionManager_OnOpenHooks(t *testing.T) {
	t.Run("runs on every fresh pool", func(t *testing.T) {
		calls := 0
		mgr, _ := newTestManager(t)
		WithOnOpen(func(*gorm.DB) error { calls++; return nil })(mgr)

		_, err := mgr.Get(bg)
		require.NoError(t, err)
		_, err = mgr.Get(bg)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("hook failure aborts open", func(t *testing.T) {
		mgr, _ := newTestManager(t)
		WithOnOpen(func(*gorm.DB) error { return errors.New("plugin refused") })(mgr)

		_, err := mgr.Get(bg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "plugin refused")
	})
}

func TestConnectionManager_UnreachableDatabase(t *testing.T) {
	mgr := NewConnectionManager(config.ErpDBConfig{Host: "nowhere", Port: 1433},
		WithDialector(func() gorm.Dialector {
			return sqlite.Open("file:/nonexistent-dir/erp.db?mode=ro")
		}),
	)
	defer mgr.Close()

	_, err := mgr.Get(bg)
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrUnavailable)
	assert.Nil(t, mgr.db)
}

func TestConnectionManager_RequestTimeout(t *testing.T) {
	assert.Equal(t, 60*time.Second, NewConnectionManager(config.ErpDBConfig{}).RequestTimeout())
	assert.Equal(t, 5*time.Second, NewConnectionManager(config.ErpDBConfig{RequestTimeout: 5 * time.Second}).RequestTimeout())
}
