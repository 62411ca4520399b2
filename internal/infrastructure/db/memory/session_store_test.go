package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
)

func TestSessionStore_Lifecycle(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	now := time.Now()

	_ = store.Create(ctx, &domain.Session{ID: "s1", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	_ = store.Create(ctx, &domain.Session{ID: "s2", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})

	if err := store.SetRoleMarker(ctx, "s1", domain.RoleCustomer); err != nil {
		t.Fatalf("SetRoleMarker failed: %v", err)
	}
	role, ok, _ := store.RoleMarker(ctx, "s1")
	if !ok || role != domain.RoleCustomer {
		t.Fatalf("expected customer marker, got %v ok=%v", role, ok)
	}
	if _, ok, _ := store.RoleMarker(ctx, "s2"); ok {
		t.Fatal("expected s2 unmarked")
	}

	n, _ := store.DeleteByUserID(ctx, "u1")
	if n != 2 {
		t.Fatalf("expected 2 sessions ended, got %d", n)
	}
	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStore_ExpiredSessionIsGone(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	now := time.Now()

	_ = store.Create(ctx, &domain.Session{ID: "s1", UserID: "u1", ExpiresAt: now.Add(time.Minute)})
	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	if _, err := store.Get(ctx, "s1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expired session gone, got %v", err)
	}
	_ = store.SetRoleMarker(ctx, "s1", domain.RoleAdmin)
	if _, ok, _ := store.RoleMarker(ctx, "s1"); ok {
		t.Fatal("expected no marker on an expired session")
	}
}

func TestSessionStore_CreatePrunesExpiredSessions(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()
	now := time.Now()

	_ = store.Create(ctx, &domain.Session{ID: "old1", UserID: "u1", ExpiresAt: now.Add(time.Minute)})
	_ = store.Create(ctx, &domain.Session{ID: "old2", UserID: "u2", ExpiresAt: now.Add(time.Minute)})
	_ = store.Create(ctx, &domain.Session{ID: "keep", UserID: "u3", ExpiresAt: now.Add(time.Hour)})
	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	_ = store.Create(ctx, &domain.Session{ID: "new", UserID: "u4", ExpiresAt: now.Add(time.Hour)})

	if len(store.sessions) != 2 {
		t.Fatalf("expected 2 live sessions kept, got %d", len(store.sessions))
	}
	for _, id := range []string{"keep", "new"} {
		if _, err := store.Get(ctx, id); err != nil {
			t.Fatalf("expected %s kept, got %v", id, err)
		}
	}
}
