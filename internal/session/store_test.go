package session

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if err := store.Save(ctx, &Session{ID: "a", Token: "t"}, time.Minute); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := store.Get(ctx, "a"); err != nil {
		t.Fatalf("get: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()

	if err := store.Save(ctx, &Session{ID: "../cli", Token: "tok", PendingEventoID: 7}, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Get(ctx, "../cli")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Token != "tok" || got.PendingEventoID != 7 {
		t.Fatalf("unexpected session %+v", got)
	}
	if err := store.Delete(ctx, "../cli"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "../cli"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
