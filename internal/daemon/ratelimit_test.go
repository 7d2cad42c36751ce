package daemon

import (
	"testing"
	"time"
)

func TestRateLimiterRefillsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Fatal("third request within window should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("other client should have its own bucket")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("request after window should pass")
	}
}

func TestRateLimiterCleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("idle")

	now = now.Add(2 * time.Hour)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.clients["idle"]; ok {
		t.Fatal("idle client survived cleanup")
	}
}

func TestRateLimiterStopTwice(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()
}
