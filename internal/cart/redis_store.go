package cart

import (
	"context"
	"encoding/json"
	"time"

	pkgerrors "github.com/sportiva/storefront-api/pkg/errors"
	"github.com/sportiva/storefront-api/pkg/redis"
)

type cartCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStore keeps each session's line list as a JSON document keyed by
// session id. Every write refreshes the TTL so active carts outlive the
// sliding session window.
type RedisStore struct {
	cache cartCache
	ttl   time.Duration
}

func NewRedisStore(cache cartCache, ttl time.Duration) (*RedisStore, error) {
	if cache == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store requires a cache client")
	}
	if ttl <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart store requires a positive session ttl")
	}
	return &RedisStore{cache: cache, ttl: ttl}, nil
}

func (s *RedisStore) Lines(ctx context.Context, sessionID string) ([]Line, error) {
	raw, err := s.cache.Get(ctx, s.cache.CartKey(sessionID))
	if err != nil {
		if redis.IsNil(err) {
			return []Line{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to read cart")
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to decode cart")
	}
	return lines, nil
}

func (s *RedisStore) Replace(ctx context.Context, sessionID string, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	payload, err := json.Marshal(lines)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode cart")
	}
	if err := s.cache.Set(ctx, s.cache.CartKey(sessionID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to write cart")
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.cache.Del(ctx, s.cache.CartKey(sessionID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to clear cart")
	}
	return nil
}
