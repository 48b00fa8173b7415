package erpdb

import (
	"context"
	"testing"

	"github.com/erp/syncengine/internal/infrastructure/config"
	"github.com/erp/syncengine/internal/testutil"
	"gorm.io/gorm"
)

// newTestManager points a ConnectionManager at a fresh in-memory ERP
func newTestManager(t *testing.T) (*ConnectionManager, *testutil.ErpSQLite) {
	t.Helper()
	erp := testutil.NewErpSQLite(t)
	mgr := NewConnectionManager(config.ErpDBConfig{Host: "sqlite", MaxOpenConns: 1},
		WithDialector(func() gorm.Dialector { return erp.Dialector() }),
	)
	t.Cleanup(func() { _ = mgr.Close() })
	return mgr, erp
}

var bg = context.Background()
