package testutil

import (
	"fmt"
	"testing"

	"github.com/erp/syncengine/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
)

// NewLocalDB returns a migrated in-memory website database. It holds a
// single connection, so callers must not nest queries inside a transaction
// on the non-transactional handle.
func NewLocalDB(t *testing.T) *persistence.Database {
	t.Helper()

	db, err := persistence.Open(sqlite.Open(fmt.Sprintf("file:local-%s?mode=memory&cache=shared", uuid.NewString())), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate())

	t.Cleanup(func() { _ = db.Close() })
	return db
}
