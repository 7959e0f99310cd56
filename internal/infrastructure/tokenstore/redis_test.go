package tokenstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gympulse/member-portal/internal/core/domain"
)

func newRedisStoreTest(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, time.Hour), mr
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _ := newRedisStoreTest(t)
	ctx := context.Background()

	if err := store.Put(ctx, "s1", "tok-1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	tok, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tok != "tok-1" {
		t.Fatalf("unexpected token: %s", tok)
	}
}

func TestRedisStore_MissingSlot(t *testing.T) {
	store, _ := newRedisStoreTest(t)

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestRedisStore_DeleteIdempotent(t *testing.T) {
	store, _ := newRedisStoreTest(t)
	ctx := context.Background()

	_ = store.Put(ctx, "s1", "tok-1")
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("second delete must not fail: %v", err)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("slot must be empty after delete, got %v", err)
	}
}

func TestRedisStore_SlotExpires(t *testing.T) {
	store, mr := newRedisStoreTest(t)
	ctx := context.Background()

	_ = store.Put(ctx, "s1", "tok-1")
	mr.FastForward(2 * time.Hour)

	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected slot to expire with the session TTL, got %v", err)
	}
}
