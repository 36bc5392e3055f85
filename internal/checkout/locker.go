package checkout

import (
	"context"
	"sync"
	"time"

	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
)

// Locker guards the Submitting state: Acquire returns false while another
// submission for the same session is in flight.
type Locker interface {
	Acquire(ctx context.Context, sessionID string) (bool, error)
	Release(ctx context.Context, sessionID string) error
}

type lockCache interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutLockKey(sessionID string) string
}

// RedisLocker implements the submission guard with SetNX. The TTL bounds how
// long an abandoned submission can block its session.
type RedisLocker struct {
	cache lockCache
	ttl   time.Duration
}

func NewRedisLocker(cache lockCache, ttl time.Duration) (*RedisLocker, error) {
	if cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout locker requires a cache client")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout locker requires a positive ttl")
	}
	return &RedisLocker{cache: cache, ttl: ttl}, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, sessionID string) (bool, error) {
	ok, err := l.cache.SetNX(ctx, l.cache.CheckoutLockKey(sessionID), "1", l.ttl)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to acquire checkout lock")
	}
	return ok, nil
}

func (l *RedisLocker) Release(ctx context.Context, sessionID string) error {
	if err := l.cache.Del(ctx, l.cache.CheckoutLockKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to release checkout lock")
	}
	return nil
}

// MemoryLocker is the in-process guard used by tests and redis-less dev
// setups.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (l *MemoryLocker) Acquire(_ context.Context, sessionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[sessionID]; ok {
		return false, nil
	}
	l.held[sessionID] = struct{}{}
	return true, nil
}

func (l *MemoryLocker) Release(_ context.Context, sessionID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, sessionID)
	return nil
}
