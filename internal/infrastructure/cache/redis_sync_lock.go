package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSyncLock implements integration.SyncLock with SET NX PX so that
// several engine instances share one lock per sync kind.
type RedisSyncLock struct {
	client    redis.UniversalClient
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisSyncLock creates a lock and verifies the connection
func NewRedisSyncLock(ctx context.Context, client redis.UniversalClient, logger *zap.Logger) (*RedisSyncLock, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisSyncLockWithClient(client, "", logger), nil
}

// NewRedisSyncLockWithClient wraps an existing client without pinging it
func NewRedisSyncLockWithClient(client redis.UniversalClient, keyPrefix string, logger *zap.Logger) *RedisSyncLock {
	if keyPrefix == "" {
		keyPrefix = "syncengine:lock:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSyncLock{client: client, keyPrefix: keyPrefix, logger: logger}
}

// Acquire takes the named lock for at most ttl
func (l *RedisSyncLock) Acquire(ctx context.Context, name string, ttl time.Duration) (integration.ReleaseFunc, error) {
	key := l.keyPrefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire sync lock %s: %w", name, err)
	}
	if !ok {
		return nil, integration.ErrSyncInProgress
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// the caller's context may already be done when the run ends
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				l.logger.Warn("failed to release sync lock", zap.String("lock", name), zap.Error(err))
			}
		})
	}, nil
}

// Close closes the Redis client
func (l *RedisSyncLock) Close() error {
	return l.client.Close()
}

var _ integration.SyncLock = (*RedisSyncLock)(nil)
