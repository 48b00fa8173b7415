package integration

import (
	"context"
	"time"
)

// Lock names used by the sync services
const (
	LockOrderSync   = "erp:order-sync"
	LockEntitySync  = "erp:entity-sync"
	LockProductSync = "erp:product-sync"
	LockPartnerSync = "erp:partner-sync"
)

// ReleaseFunc releases a held lock. It is safe to call more than once.
type ReleaseFunc func()

// SyncLock serialises sync runs that generate remote sequence numbers.
// Acquire returns ErrSyncInProgress when the lock is already held.
type SyncLock interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (ReleaseFunc, error)
}
