package marker

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	if m, err := store.Get(ctx, "user_1"); err != nil || m != nil {
		t.Fatalf("expected empty store, got %+v err %v", m, err)
	}

	want := Marker{ExternalID: "user_1", Email: "a@example.com", Role: "student"}
	if err := store.Set(ctx, want); err != nil {
		t.Fatalf("set error: %v", err)
	}

	got, err := store.Get(ctx, "user_1")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if got == nil || *got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := store.Clear(ctx, "user_1"); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	if m, _ := store.Get(ctx, "user_1"); m != nil {
		t.Fatalf("expected marker cleared, got %+v", m)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(10 * time.Millisecond)

	if err := store.Set(ctx, Marker{ExternalID: "user_2", Email: "b@example.com", Role: "admin"}); err != nil {
		t.Fatalf("set error: %v", err)
	}
	if m, _ := store.Get(ctx, "user_2"); m == nil {
		t.Fatalf("expected marker before expiry")
	}

	time.Sleep(20 * time.Millisecond)
	if m, _ := store.Get(ctx, "user_2"); m != nil {
		t.Fatalf("expected marker expired, got %+v", m)
	}
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	_ = store.Set(ctx, Marker{ExternalID: "user_3", Email: "c@example.com", Role: "student"})
	_ = store.Set(ctx, Marker{ExternalID: "user_3", Email: "c@example.com", Role: "admin"})

	got, _ := store.Get(ctx, "user_3")
	if got == nil || got.Role != "admin" {
		t.Fatalf("expected last write to win, got %+v", got)
	}
}
