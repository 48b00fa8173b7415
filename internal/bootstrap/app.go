// Package bootstrap wires configuration, databases, telemetry and the sync
// services into one graph shared by the worker and the operator CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	appintegration "github.com/erp/syncengine/internal/application/integration"
	"github.com/erp/syncengine/internal/infrastructure/cache"
	"github.com/erp/syncengine/internal/infrastructure/config"
	"github.com/erp/syncengine/internal/infrastructure/erpdb"
	"github.com/erp/syncengine/internal/infrastructure/logger"
	"github.com/erp/syncengine/internal/infrastructure/persistence"
	"github.com/erp/syncengine/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/erp/syncengine"

// App holds the wired services and everything that must be closed on exit
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Local *persistence.Database
	Erp   *erpdb.ConnectionManager

	Orders   *appintegration.OrderSyncService
	Entities *appintegration.EntitySyncService
	Products *appintegration.ProductSyncService
	Partners *appintegration.PartnerImportService
	Mappings *appintegration.MappingService

	telemetry *telemetry.Providers
}

// New builds the application graph. The ERP pool is opened lazily by the
// first operation that needs it.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	app := &App{Config: cfg, Logger: log}

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		Insecure:          cfg.Telemetry.Insecure,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	app.telemetry = providers

	metrics, err := telemetry.NewSyncMetrics(providers.Meter(instrumentationName))
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("init sync metrics: %w", err)
	}

	gormLevel := logger.MapGormLogLevel(cfg.Log.Level)
	local, err := persistence.NewDatabase(&cfg.Database, logger.NewGormLogger(log, logger.StoreLocal, gormLevel))
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.Local = local
	if cfg.Database.AutoMigrate {
		if err := local.AutoMigrate(); err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("auto-migrate local database: %w", err)
		}
		log.Info("Local schema auto-migrated")
	}

	tracingCfg := telemetry.DefaultDBTracingConfig()
	tracingCfg.Enabled = cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled
	tracingCfg.LogFullSQL = cfg.Telemetry.DBLogFullSQL
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		tracingCfg.SlowQueryThresh = cfg.Telemetry.DBSlowQueryThresh
	}
	tracingCfg.DBName = "website"
	if err := telemetry.NewDBTracingPlugin(tracingCfg, log).Register(local.DB); err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("instrument local database: %w", err)
	}

	erpTracing := tracingCfg
	erpTracing.DBName = cfg.ErpDB.Database
	erpGormLogger := logger.NewGormLogger(log, logger.StoreErp, gormLevel,
		logger.WithSlowThreshold(cfg.ErpDB.SlowQueryThreshold),
		logger.WithRedactedSQL(!cfg.Telemetry.DBLogFullSQL),
	)
	app.Erp = erpdb.NewConnectionManager(cfg.ErpDB,
		erpdb.WithGormLogger(erpGormLogger),
		erpdb.WithOnOpen(telemetry.NewDBTracingPlugin(erpTracing, log).Register),
		erpdb.WithLogger(log),
	)

	lock, err := cache.NewSyncLockFactory(cfg.Redis, cache.WithLogger(log)).CreateLock(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("create sync lock: %w", err)
	}

	settings := appintegration.SettingsFromConfig(cfg.Sync)
	opts := []appintegration.Option{
		appintegration.WithSyncLock(lock),
		appintegration.WithMetrics(metrics),
		appintegration.WithLogger(log),
	}

	mappings := persistence.NewGormEntityMappingRepository(local.DB)
	configs := persistence.NewGormSystemConfigRepository(local.DB)
	salespersons := persistence.NewGormSalespersonRepository(local.DB)

	app.Entities = appintegration.NewEntitySyncService(mappings, erpdb.NewEntityStore(app.Erp),
		persistence.NewGormCustomerRepository(local.DB), salespersons, settings, opts...)
	app.Orders = appintegration.NewOrderSyncService(persistence.NewGormOrderRepository(local.DB),
		app.Entities, erpdb.NewOrderStore(app.Erp), settings, opts...)
	app.Products = appintegration.NewProductSyncService(erpdb.NewProductReader(app.Erp),
		persistence.NewGormCategoryRepository(local.DB),
		persistence.NewGormProductGroupRepository(local.DB),
		persistence.NewGormProductSkuRepository(local.DB),
		configs, settings, opts...)
	app.Partners = appintegration.NewPartnerImportService(
		erpdb.NewPartnerReader(app.Erp, cfg.Sync.SalespersonImportLike),
		salespersons, persistence.NewGormErpCustomerRepository(local.DB), configs,
		nil, settings, opts...)
	app.Mappings = appintegration.NewMappingService(mappings, opts...)

	return app, nil
}

// Close releases the ERP pool, the local database and the telemetry
// exporters, in that order. Errors are logged.
func (a *App) Close(ctx context.Context) {
	var errs []error
	if a.Erp != nil {
		errs = append(errs, a.Erp.Close())
	}
	if a.Local != nil {
		errs = append(errs, a.Local.Close())
	}
	if a.telemetry != nil {
		errs = append(errs, a.telemetry.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		a.Logger.Error("Error during shutdown", zap.Error(err))
	}
}
