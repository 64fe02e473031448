package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_SetGetWithinTTL(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k", "resume text", time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	var got string
	hit, err := c.GetJSON(ctx, "k", &got)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if !hit {
		t.Fatal("expected hit within TTL")
	}
	if got != "resume text" {
		t.Errorf("got %q, want %q", got, "resume text")
	}
}

func TestMemoryCache_ExpiryReturnsAbsent(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	if err := c.SetJSON(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	var got string
	hit, err := c.GetJSON(ctx, "k", &got)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if hit {
		t.Error("expected miss after TTL elapsed")
	}
}

func TestMemoryCache_OverwriteResetsValue(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	_ = c.SetJSON(ctx, "k", "first", time.Minute)
	_ = c.SetJSON(ctx, "k", "second", time.Minute)

	var got string
	hit, _ := c.GetJSON(ctx, "k", &got)
	if !hit || got != "second" {
		t.Errorf("got hit=%v val=%q, want second", hit, got)
	}
}

func TestMemoryCache_Del(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	_ = c.SetJSON(ctx, "a", 1, 0)
	_ = c.SetJSON(ctx, "b", 2, 0)
	if err := c.Del(ctx, "a", "b"); err != nil {
		t.Fatalf("Del: %v", err)
	}

	var n int
	if hit, _ := c.GetJSON(ctx, "a", &n); hit {
		t.Error("key a should be gone")
	}
	if hit, _ := c.GetJSON(ctx, "b", &n); hit {
		t.Error("key b should be gone")
	}
}

func TestMemoryCache_SweepEvictsExpired(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	_ = c.SetJSON(ctx, "old", "v", 5*time.Millisecond)
	_ = c.SetJSON(ctx, "live", "v", time.Minute)
	time.Sleep(20 * time.Millisecond)
	c.sweep()

	c.mu.Lock()
	_, oldThere := c.m["old"]
	_, liveThere := c.m["live"]
	c.mu.Unlock()

	if oldThere {
		t.Error("sweep should drop expired entry")
	}
	if !liveThere {
		t.Error("sweep must keep live entry")
	}
}
