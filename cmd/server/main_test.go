package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/bookmystyle/user-accounts/internal/core/domain"
	"github.com/bookmystyle/user-accounts/internal/infrastructure/config"
	"github.com/bookmystyle/user-accounts/internal/infrastructure/db/memory"
)

func TestOpenSessionBackend_Memory(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{Backend: "memory"}}

	backend, err := openSessionBackend(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer backend.Close()

	if _, ok := backend.sessions.(*memory.SessionStore); !ok {
		t.Fatalf("expected memory store, got %T", backend.sessions)
	}
	if backend.redis != nil || backend.dedup != nil {
		t.Fatal("memory backend must not carry redis resources")
	}
}

func TestOpenSessionBackend_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Session: config.SessionConfig{Backend: "redis"},
		Redis:   config.RedisConfig{Addr: mr.Addr(), Timeout: time.Second},
	}

	backend, err := openSessionBackend(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer backend.Close()

	if backend.redis == nil || backend.dedup == nil {
		t.Fatal("expected redis client and dedup checker")
	}
	ctx := context.Background()
	now := time.Now().UTC()
	if err := backend.sessions.Create(ctx, &domain.Session{ID: "s1", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !mr.Exists("session:s1") {
		t.Fatal("expected session written to redis")
	}
}

func TestOpenSessionBackend_RedisUnreachable(t *testing.T) {
	cfg := &config.Config{
		Session: config.SessionConfig{Backend: "redis"},
		Redis:   config.RedisConfig{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond},
	}
	if _, err := openSessionBackend(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected connection error")
	}
}
