package cart

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type fakeCartCache struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newFakeCartCache() *fakeCartCache {
	return &fakeCartCache{values: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeCartCache) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (f *fakeCartCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = ttl
	return nil
}

func (f *fakeCartCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeCartCache) CartKey(sessionID string) string {
	return "sf:cart:" + sessionID
}

func TestRedisStoreRoundTrip(t *testing.T) {
	t.Parallel()

	cache := newFakeCartCache()
	store, err := NewRedisStore(cache, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	lines := []Line{{ProductID: 1, Name: "Zapatillas Running Pro", UnitPrice: money("89.99"), Quantity: 2}}
	if err := store.Replace(ctx, "sess-1", lines); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cache.ttls["sf:cart:sess-1"] != time.Hour {
		t.Fatalf("ttl = %s, want 1h", cache.ttls["sf:cart:sess-1"])
	}

	got, err := store.Lines(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ProductID != 1 || got[0].Quantity != 2 {
		t.Fatalf("unexpected lines %+v", got)
	}
	if !got[0].UnitPrice.Equal(money("89.99")) {
		t.Fatalf("unit price = %s, want 89.99", got[0].UnitPrice)
	}
}

func TestRedisStoreMissingKeyIsEmptyCart(t *testing.T) {
	t.Parallel()

	store, err := NewRedisStore(newFakeCartCache(), time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines, err := store.Lines(context.Background(), "sess-none")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty cart, got %+v", lines)
	}
}

func TestRedisStoreClear(t *testing.T) {
	t.Parallel()

	cache := newFakeCartCache()
	store, err := NewRedisStore(cache, time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if err := store.Replace(ctx, "sess-1", []Line{{ProductID: 1, Quantity: 1}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Clear(ctx, "sess-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines, err := store.Lines(ctx, "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected cleared cart, got %+v", lines)
	}
}
