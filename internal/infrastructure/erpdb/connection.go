// Package erpdb talks to the remote ERP SQL Server database: connection
// lifecycle plus the adapters behind the integration ports.
package erpdb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/erp/syncengine/internal/domain/shared"
	"github.com/erp/syncengine/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrClosed is returned by Get after Close
var ErrClosed = errors.New("erpdb: connection manager closed")

// ConnectionManager owns the pooled handle to the ERP database. The pool is
// opened on first use and reopened when a liveness ping on the cached
// handle fails. It is safe for concurrent use.
type ConnectionManager struct {
	cfg        config.ErpDBConfig
	dialector  func() gorm.Dialector
	gormLogger gormlogger.Interface
	onOpen     []func(*gorm.DB) error
	logger     *zap.Logger

	mu     sync.Mutex
	db     *gorm.DB
	closed bool
}

// Option configures a ConnectionManager
type Option func(*ConnectionManager)

// WithDialector replaces the SQL Server dialector, e.g. with sqlite in tests
func WithDialector(fn func() gorm.Dialector) Option {
	return func(m *ConnectionManager) {
		m.dialector = fn
	}
}

// WithGormLogger sets the GORM logger used for ERP statements
func WithGormLogger(l gormlogger.Interface) Option {
	return func(m *ConnectionManager) {
		m.gormLogger = l
	}
}

// WithOnOpen registers a hook run on every freshly opened pool, such as
// installing tracing callbacks
func WithOnOpen(fn func(*gorm.DB) error) Option {
	return func(m *ConnectionManager) {
		m.onOpen = append(m.onOpen, fn)
	}
}

// WithLogger sets the zap logger for lifecycle events
func WithLogger(l *zap.Logger) Option {
	return func(m *ConnectionManager) {
		m.logger = l
	}
}

// NewConnectionManager creates a manager; nothing is dialed until Get.
func NewConnectionManager(cfg config.ErpDBConfig, opts ...Option) *ConnectionManager {
	m := &ConnectionManager{
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	m.dialector = func() gorm.Dialector { return sqlserver.Open(cfg.DSN()) }
	for _, opt := range opts {
		opt(m)
	}
	if m.gormLogger == nil {
		m.gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	return m
}

// Get returns a live handle bound to ctx. Failing to reach the ERP returns
// an error matching shared.ErrUnavailable; callers treat it as fatal for the
// current sync attempt. A cancelled ctx returns ctx.Err() and leaves the
// shared pool alone.
func (m *ConnectionManager) Get(ctx context.Context) (*gorm.DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	if m.db != nil {
		err := m.ping(ctx, m.db)
		if err == nil {
			return m.db.WithContext(ctx), nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		m.logger.Warn("ERP connection lost, reopening", zap.Error(err))
		_ = m.closeLocked()
	}

	db, err := m.open(ctx)
	if err != nil {
		return nil, err
	}
	m.db = db
	return db.WithContext(ctx), nil
}

// RequestTimeout is the per-statement deadline adapters apply
func (m *ConnectionManager) RequestTimeout() time.Duration {
	if m.cfg.RequestTimeout <= 0 {
		return 60 * time.Second
	}
	return m.cfg.RequestTimeout
}

// Close releases the pool. Calling it more than once is a no-op.
func (m *ConnectionManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	return m.closeLocked()
}

func (m *ConnectionManager) open(ctx context.Context) (*gorm.DB, error) {
	db, err := gorm.Open(m.dialector(), &gorm.Config{
		Logger:                 m.gormLogger,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open ERP database: %w", shared.ErrUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open ERP database: %w", err)
	}
	if m.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(m.cfg.MaxOpenConns)
	}
	if m.cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(m.cfg.MaxIdleConns)
	}
	if m.cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(m.cfg.ConnMaxLifetime) * time.Minute)
	}

	if err := m.ping(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%w: connect to ERP database %s:%d: %w", shared.ErrUnavailable, m.cfg.Host, m.cfg.Port, err)
	}

	for _, hook := range m.onOpen {
		if err := hook(db); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("configure ERP database: %w", err)
		}
	}

	m.logger.Info("ERP database connected",
		zap.String("host", m.cfg.Host),
		zap.Int("port", m.cfg.Port),
		zap.String("database", m.cfg.Database),
	)
	return db, nil
}

func (m *ConnectionManager) ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	timeout := m.cfg.DialTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return sqlDB.PingContext(pingCtx)
}

func (m *ConnectionManager) closeLocked() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	m.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
