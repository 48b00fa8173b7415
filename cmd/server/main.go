package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/syncengine/internal/bootstrap"
	"github.com/erp/syncengine/internal/infrastructure/config"
	"github.com/erp/syncengine/internal/infrastructure/logger"
	"github.com/erp/syncengine/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting ERP sync worker",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.Bool("sync_enabled", cfg.Sync.Enabled),
	)

	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Product sync trigger (if enabled)
	var trigger *scheduler.CronTrigger
	if cfg.Scheduler.Enabled {
		schedule, err := scheduler.NewDailySchedule(cfg.Scheduler.ProductSyncSchedule, cfg.Scheduler.TimeZone)
		if err != nil {
			app.Close(ctx)
			log.Fatal("Invalid product sync schedule", zap.Error(err))
		}
		trigger = scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			Name:          "product_sync",
			Schedule:      schedule,
			CheckInterval: cfg.Scheduler.CheckInterval,
			JobTimeout:    cfg.Scheduler.JobTimeout,
		}, productSyncJob(app), log)
		if err := trigger.Start(ctx); err != nil {
			app.Close(ctx)
			log.Fatal("Failed to start product sync trigger", zap.Error(err))
		}
	} else {
		log.Info("Product sync trigger disabled")
	}

	// SIGHUP runs the product sync now; SIGINT and SIGTERM shut down
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for sig := range sigs {
		if sig != syscall.SIGHUP {
			break
		}
		if trigger == nil {
			log.Warn("SIGHUP ignored, product sync trigger is disabled")
			continue
		}
		if err := trigger.TriggerManualRun(); err != nil {
			log.Warn("Manual product sync not started", zap.Error(err))
			continue
		}
		log.Info("Manual product sync started")
	}
	log.Info("Shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if trigger != nil {
		if err := trigger.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping product sync trigger", zap.Error(err))
		}
		if run := trigger.Status().LastRun; run != nil {
			log.Info("Last product sync",
				zap.String("status", string(run.Status)),
				zap.Time("started_at", run.StartedAt),
				zap.String("error", run.Error),
			)
		}
	}
	app.Close(shutdownCtx)

	log.Info("Worker exited gracefully")
}

// productSyncJob runs an incremental product sync; a failed result fails
// the run so the trigger records it.
func productSyncJob(app *bootstrap.App) scheduler.JobFunc {
	return func(ctx context.Context) error {
		res := app.Products.SyncProducts(ctx, true)
		if !res.Success {
			return errors.New("product sync failed: " + res.Error)
		}
		return nil
	}
}
