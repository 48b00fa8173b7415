package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/syncengine/internal/domain/integration"
)

type heldLock struct {
	token     uint64
	expiresAt time.Time
}

// InMemorySyncLock implements integration.SyncLock inside one process.
// This is suitable for single-instance deployments and testing.
type InMemorySyncLock struct {
	mu    sync.Mutex
	held  map[string]heldLock
	next  uint64
	clock func() time.Time
}

// NewInMemorySyncLock creates an empty lock table
func NewInMemorySyncLock() *InMemorySyncLock {
	return &InMemorySyncLock{
		held:  make(map[string]heldLock),
		clock: time.Now,
	}
}

// Acquire takes the named lock for at most ttl. A non-positive ttl holds
// the lock until released.
func (l *InMemorySyncLock) Acquire(_ context.Context, name string, ttl time.Duration) (integration.ReleaseFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if h, ok := l.held[name]; ok && (h.expiresAt.IsZero() || now.Before(h.expiresAt)) {
		return nil, integration.ErrSyncInProgress
	}

	l.next++
	h := heldLock{token: l.next}
	if ttl > 0 {
		h.expiresAt = now.Add(ttl)
	}
	l.held[name] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if cur, ok := l.held[name]; ok && cur.token == h.token {
				delete(l.held, name)
			}
		})
	}, nil
}

// IsHeld reports whether name is currently locked
func (l *InMemorySyncLock) IsHeld(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	h, ok := l.held[name]
	return ok && (h.expiresAt.IsZero() || l.clock().Before(h.expiresAt))
}

var _ integration.SyncLock = (*InMemorySyncLock)(nil)
