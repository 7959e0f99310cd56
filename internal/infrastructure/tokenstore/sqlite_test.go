package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/gympulse/member-portal/internal/core/domain"
)

func newSQLiteStoreTest(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewSQLiteStore(db)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store := newSQLiteStoreTest(t)
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

func TestSQLiteStore_PutOverwrites(t *testing.T) {
	store := newSQLiteStoreTest(t)
	ctx := context.Background()

	_ = store.Put(ctx, "s1", "old")
	_ = store.Put(ctx, "s1", "new")

	tok, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tok != "new" {
		t.Fatalf("expected the slot to hold the latest token, got %s", tok)
	}
}

func TestSQLiteStore_MissingSlot(t *testing.T) {
	store := newSQLiteStoreTest(t)

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrNoToken) {
		t.Fatalf("expected ErrNoToken, got %v", err)
	}
}

func TestSQLiteStore_DeleteIdempotent(t *testing.T) {
	store := newSQLiteStoreTest(t)
	ctx := context.Background()

	_ = store.Put(ctx, "s1", "tok-1")
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("second delete must not fail: %v", err)
	}
}
