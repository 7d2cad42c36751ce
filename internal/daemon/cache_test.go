package daemon

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get on empty cache err = %v, want ErrCacheMiss", err)
	}

	value := []byte(`{"mode":"debt"}`)
	if err := c.Set(ctx, "k", value, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	value[0] = 'X'

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"mode":"debt"}` {
		t.Fatalf("Get = %s, want stored copy", got)
	}

	now = now.Add(time.Minute)
	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get after ttl err = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheZeroTTLKeeps(t *testing.T) {
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	now = now.Add(24 * 365 * time.Hour)
	if _, err := c.Get(ctx, "k"); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestMemoryCacheSweepsExpiredOnSet(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		if err := c.Set(ctx, fmt.Sprintf("fp-%d", i), []byte("v"), time.Minute); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if n := c.Len(); n != 50 {
		t.Fatalf("Len = %d, want 50", n)
	}

	now = now.Add(2 * time.Minute)
	if err := c.Set(ctx, "fresh", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if n := c.Len(); n != 1 {
		t.Fatalf("Len after sweep = %d, want 1", n)
	}
}

func TestMemoryCacheEvictsOldestAtCapacity(t *testing.T) {
	c := NewMemoryCache()
	c.maxEntries = 3
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for _, k := range []string{"a", "b", "c", "d"} {
		now = now.Add(time.Second)
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set %s: %v", k, err)
		}
	}
	if n := c.Len(); n != 3 {
		t.Fatalf("Len = %d, want 3", n)
	}
	if _, err := c.Get(ctx, "a"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get(a) err = %v, want ErrCacheMiss", err)
	}
	for _, k := range []string{"b", "c", "d"} {
		if _, err := c.Get(ctx, k); err != nil {
			t.Fatalf("Get(%s): %v", k, err)
		}
	}

	// overwriting a present key does not evict
	now = now.Add(time.Second)
	if err := c.Set(ctx, "d", []byte("d2"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := c.Get(ctx, "b"); err != nil {
		t.Fatalf("Get(b) after overwrite: %v", err)
	}
}
