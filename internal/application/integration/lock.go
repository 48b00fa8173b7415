package integration

import (
	"context"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
)

// acquire takes the named lock, or does nothing when no lock is configured.
// The returned release is never nil.
func acquire(ctx context.Context, lock integration.SyncLock, name string, ttl time.Duration) (integration.ReleaseFunc, error) {
	if lock == nil {
		return func() {}, nil
	}
	release, err := lock.Acquire(ctx, name, ttl)
	if err != nil {
		return nil, err
	}
	return release, nil
}
