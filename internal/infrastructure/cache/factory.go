package cache

import (
	"context"
	"fmt"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/erp/syncengine/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SyncLockFactory creates sync locks based on configuration
type SyncLockFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SyncLockFactoryOption is a functional option for configuring the factory
type SyncLockFactoryOption func(*SyncLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SyncLockFactoryOption {
	return func(f *SyncLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-process lock
// when Redis is configured but unreachable. Default is true.
func WithInMemoryFallback(allow bool) SyncLockFactoryOption {
	return func(f *SyncLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSyncLockFactory creates a new factory
func NewSyncLockFactory(cfg config.RedisConfig, opts ...SyncLockFactoryOption) *SyncLockFactory {
	f := &SyncLockFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateLock returns a Redis-backed lock when Redis is configured, and the
// in-process lock otherwise.
func (f *SyncLockFactory) CreateLock(ctx context.Context) (integration.SyncLock, error) {
	addr := f.redisConfig.Addr()
	if addr == "" {
		f.logger.Info("Redis not configured, using in-memory sync lock")
		return NewInMemorySyncLock(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	lock, err := NewRedisSyncLock(ctx, client, f.logger)
	if err == nil {
		f.logger.Info("using Redis sync lock", zap.String("addr", addr))
		return lock, nil
	}
	_ = client.Close()

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for sync lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory sync lock. "+
		"Concurrent engine instances may then run the same sync.",
		zap.Error(err),
	)
	return NewInMemorySyncLock(), nil
}
