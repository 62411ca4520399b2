package mongo

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestConnect_RequiresDatabase(t *testing.T) {
	_, _, err := Connect(context.Background(), Config{URI: "mongodb://127.0.0.1:1"})
	if err == nil || !strings.Contains(err.Error(), "database name") {
		t.Fatalf("expected missing database error, got %v", err)
	}
}

func TestConnect_UnreachableServer(t *testing.T) {
	start := time.Now()
	_, _, err := Connect(context.Background(), Config{
		URI:      "mongodb://127.0.0.1:1/?connect=direct",
		Database: "bookmystyle",
		Timeout:  200 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected ping to fail")
	}
	if !strings.Contains(err.Error(), "mongo") {
		t.Fatalf("expected wrapped mongo error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("timeout not applied, took %s", elapsed)
	}
}
