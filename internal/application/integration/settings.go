package integration

import (
	"context"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/infrastructure/config"
	"github.com/erp/syncengine/internal/infrastructure/logger"
	"github.com/erp/syncengine/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Settings is the sync behaviour shared by the services
type Settings struct {
	Enabled          bool
	Warehouse        string
	SendMethod       string
	PayMethod        string
	TaxRate          decimal.Decimal
	OrderNumbers     integration.OrderNumberFormat
	CustomerCodes    integration.CodeFormat
	SalespersonCodes integration.CodeFormat
	TestCodePrefix   string
	LockTTL          time.Duration
}

// SettingsFromConfig maps the [sync] config section
func SettingsFromConfig(c config.SyncConfig) Settings {
	return Settings{
		Enabled:          c.Enabled,
		Warehouse:        c.DefaultWarehouse,
		SendMethod:       c.DefaultSendMethod,
		PayMethod:        c.DefaultPayMethod,
		TaxRate:          c.TaxRate,
		OrderNumbers:     integration.OrderNumberFormat{Literal: c.OrderPrefix},
		CustomerCodes:    integration.CodeFormat{Prefix: c.CustomerCodePrefix, Width: c.CodeWidth},
		SalespersonCodes: integration.CodeFormat{Prefix: c.SalespersonCodePrefix, Width: c.CodeWidth},
		TestCodePrefix:   c.TestCodePrefix,
		LockTTL:          c.LockTTL,
	}
}

// CodeFormat returns the remote code format of kind
func (s Settings) CodeFormat(kind integration.EntityKind) integration.CodeFormat {
	if kind == integration.EntityKindSalesperson {
		return s.SalespersonCodes
	}
	return s.CustomerCodes
}

func (s Settings) lockTTL() time.Duration {
	if s.LockTTL <= 0 {
		return 10 * time.Minute
	}
	return s.LockTTL
}

// Option configures optional collaborators of the sync services
type Option func(*serviceOptions)

type serviceOptions struct {
	lock    integration.SyncLock
	metrics *telemetry.SyncMetrics
	logger  *zap.Logger
	now     func() time.Time
}

func newServiceOptions(opts []Option) serviceOptions {
	o := serviceOptions{
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSyncLock serialises runs through lock. Without it runs are not guarded.
func WithSyncLock(lock integration.SyncLock) Option {
	return func(o *serviceOptions) {
		o.lock = lock
	}
}

// WithMetrics records sync activity
func WithMetrics(m *telemetry.SyncMetrics) Option {
	return func(o *serviceOptions) {
		o.metrics = m
	}
}

// WithLogger sets the service logger
func WithLogger(l *zap.Logger) Option {
	return func(o *serviceOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides time.Now, which drives order numbers and sync stamps
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// log prefers the run logger carried by ctx over the service logger
func (o serviceOptions) log(ctx context.Context) *logger.ContextLogger {
	if _, ok := ctx.Value(logger.LoggerKey).(*zap.Logger); ok {
		return logger.L(ctx)
	}
	return logger.WithLogger(ctx, o.logger)
}
