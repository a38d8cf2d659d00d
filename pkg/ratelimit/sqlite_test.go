package ratelimit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "windows.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore(): %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRoundtrip(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	if entry, err := store.Get(ctx, "missing"); err != nil || entry != nil {
		t.Fatalf("Get(missing) = %v, %v; want nil, nil", entry, err)
	}

	reset := time.Now().Add(time.Hour).Truncate(time.Second)
	if err := store.Put(ctx, "1.2.3.4", &Entry{Count: 7, Reset: reset}); err != nil {
		t.Fatalf("Put(): %v", err)
	}

	entry, err := store.Get(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Get(): %v", err)
	}
	if entry == nil || entry.Count != 7 {
		t.Fatalf("Get() = %+v, want count 7", entry)
	}
	if !entry.Reset.Equal(reset) {
		t.Errorf("Reset = %v, want %v", entry.Reset, reset)
	}

	// Put on an existing key replaces the row.
	if err := store.Put(ctx, "1.2.3.4", &Entry{Count: 8, Reset: reset}); err != nil {
		t.Fatalf("Put() update: %v", err)
	}
	entry, _ = store.Get(ctx, "1.2.3.4")
	if entry.Count != 8 {
		t.Errorf("Count after update = %d, want 8", entry.Count)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys(): %v", err)
	}
	if len(keys) != 1 || keys[0] != "1.2.3.4" {
		t.Errorf("Keys() = %v, want [1.2.3.4]", keys)
	}

	if err := store.Delete(ctx, "1.2.3.4"); err != nil {
		t.Fatalf("Delete(): %v", err)
	}
	if entry, _ := store.Get(ctx, "1.2.3.4"); entry != nil {
		t.Error("entry should be gone after Delete")
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "1.2.3.4"); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}
}

func TestSQLiteStoreRequiresPath(t *testing.T) {
	if _, err := NewSQLiteStore(""); err == nil {
		t.Fatal("NewSQLiteStore(\"\") should fail")
	}
}

func TestFixedWindowOverSQLite(t *testing.T) {
	store := newTestSQLiteStore(t)
	clock := newFakeClock()
	fw := New(Config{Limit: 2, Window: time.Hour, Store: store, Now: clock.Now})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		d, err := fw.Allow(ctx, "client")
		if err != nil {
			t.Fatalf("Allow() %d: %v", i+1, err)
		}
		if !d.Allowed {
			t.Fatalf("request %d should be admitted", i+1)
		}
	}
	if d, _ := fw.Allow(ctx, "client"); d.Allowed {
		t.Fatal("request over the ceiling should be rejected")
	}

	clock.Advance(2 * time.Hour)
	if d, _ := fw.Allow(ctx, "client"); !d.Allowed {
		t.Fatal("request after window elapsed should be admitted")
	}
}
