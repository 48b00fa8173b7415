package integration

import (
	"context"
	"testing"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/infrastructure/cache"
	"github.com/erp/syncengine/internal/infrastructure/config"
	"github.com/erp/syncengine/internal/infrastructure/erpdb"
	"github.com/erp/syncengine/internal/infrastructure/persistence"
	"github.com/erp/syncengine/internal/infrastructure/telemetry"
	"github.com/erp/syncengine/internal/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var bg = context.Background()

// fixedNow is the clock of every wired test: March 2024 in UTC
var fixedNow = time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{
		Enabled:          true,
		Warehouse:        "0000",
		SendMethod:       "1",
		PayMethod:        "1",
		TaxRate:          decimal.RequireFromString("0.13"),
		OrderNumbers:     integration.OrderNumberFormat{Literal: "SO"},
		CustomerCodes:    integration.CodeFormat{Prefix: "TEST_C", Width: 4},
		SalespersonCodes: integration.CodeFormat{Prefix: "TEST_S", Width: 4},
		TestCodePrefix:   "TEST_",
		LockTTL:          time.Minute,
	}
}

// stack wires every service against an in-memory website database and an
// in-memory ERP.
type stack struct {
	local *persistence.Database
	erp   *testutil.ErpSQLite
	mgr   *erpdb.ConnectionManager
	lock  *cache.InMemorySyncLock

	mappings     *persistence.GormEntityMappingRepository
	orders       *persistence.GormOrderRepository
	customers    *persistence.GormCustomerRepository
	salespersons *persistence.GormSalespersonRepository
	erpCustomers *persistence.GormErpCustomerRepository
	configs      *persistence.GormSystemConfigRepository
	categories   *persistence.GormCategoryRepository
	groups       *persistence.GormProductGroupRepository
	skus         *persistence.GormProductSkuRepository

	entitySync *EntitySyncService
	orderSync  *OrderSyncService
	products   *ProductSyncService
	partners   *PartnerImportService
	mappingSvc *MappingService
}

func newStack(t *testing.T, settings Settings) *stack {
	t.Helper()

	local := testutil.NewLocalDB(t)
	erp := testutil.NewErpSQLite(t)
	mgr := erpdb.NewConnectionManager(config.ErpDBConfig{Host: "sqlite", MaxOpenConns: 1},
		erpdb.WithDialector(func() gorm.Dialector { return erp.Dialector() }),
	)
	t.Cleanup(func() { _ = mgr.Close() })

	s := &stack{
		local:        local,
		erp:          erp,
		mgr:          mgr,
		lock:         cache.NewInMemorySyncLock(),
		mappings:     persistence.NewGormEntityMappingRepository(local.DB),
		orders:       persistence.NewGormOrderRepository(local.DB),
		customers:    persistence.NewGormCustomerRepository(local.DB),
		salespersons: persistence.NewGormSalespersonRepository(local.DB),
		erpCustomers: persistence.NewGormErpCustomerRepository(local.DB),
		configs:      persistence.NewGormSystemConfigRepository(local.DB),
		categories:   persistence.NewGormCategoryRepository(local.DB),
		groups:       persistence.NewGormProductGroupRepository(local.DB),
		skus:         persistence.NewGormProductSkuRepository(local.DB),
	}

	opts := []Option{
		WithSyncLock(s.lock),
		WithMetrics(telemetry.NewNoopSyncMetrics()),
		WithClock(func() time.Time { return fixedNow }),
	}
	s.entitySync = NewEntitySyncService(s.mappings, erpdb.NewEntityStore(mgr), s.customers, s.salespersons, settings, opts...)
	s.orderSync = NewOrderSyncService(s.orders, s.entitySync, erpdb.NewOrderStore(mgr), settings, opts...)
	s.products = NewProductSyncService(erpdb.NewProductReader(mgr),
		s.categories, s.groups, s.skus, s.configs, settings, opts...)
	s.partners = NewPartnerImportService(erpdb.NewPartnerReader(mgr, "MP"),
		s.salespersons, s.erpCustomers, s.configs, plainHasher, settings, opts...)
	s.mappingSvc = NewMappingService(s.mappings, opts...)
	return s
}

// plainHasher keeps tests fast; bcrypt has its own test
func plainHasher(password string) (string, error) {
	return "plain:" + password, nil
}
