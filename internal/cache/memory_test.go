package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	if _, err := c.Get(ctx, "missing"); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get missing: %v", err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	got[0] = 'x'
	if again, _ := c.Get(ctx, "k"); string(again) != "v" {
		t.Error("Get returned a shared buffer")
	}

	if err := c.Set(ctx, "short", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if ok, _ := c.Exists(ctx, "short"); ok {
		t.Error("expired entry reported as existing")
	}

	stats, _ := c.Stats(ctx)
	if stats.Entries != 1 || stats.Hits != 2 || stats.Misses != 1 {
		t.Errorf("stats = %+v", stats)
	}

	c.Clear(ctx)
	if ok, _ := c.Exists(ctx, "k"); ok {
		t.Error("Clear kept entries")
	}
}

func TestMemoryCacheGetOrSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	calls := 0
	fn := func() ([]byte, error) {
		calls++
		return []byte("computed"), nil
	}
	for i := 0; i < 3; i++ {
		v, err := c.GetOrSet(ctx, "k", time.Minute, fn)
		if err != nil || string(v) != "computed" {
			t.Fatalf("GetOrSet = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times", calls)
	}

	boom := errors.New("boom")
	if _, err := c.GetOrSet(ctx, "other", time.Minute, func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
	if ok, _ := c.Exists(ctx, "other"); ok {
		t.Error("failed compute was cached")
	}
}

func TestMemoryCacheCloseTwice(t *testing.T) {
	c := NewMemoryCache()
	c.Close()
	c.Close()
}
