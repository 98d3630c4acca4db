package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "test:"), server
}

func TestCacheHelperRoundtrip(t *testing.T) {
	ctx := context.Background()
	helper, server := newTestHelper(t)

	type payload struct {
		ID    string `json:"id"`
		Count int    `json:"count"`
	}

	if err := helper.Set(ctx, "course:1", payload{ID: "1", Count: 3}, time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !server.Exists("test:course:1") {
		t.Error("expected prefixed key in redis")
	}

	var got payload
	if err := helper.Get(ctx, "course:1", &got); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != "1" || got.Count != 3 {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestCacheHelperMiss(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	var dest map[string]string
	if err := helper.Get(ctx, "missing", &dest); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelperExpiry(t *testing.T) {
	ctx := context.Background()
	helper, server := newTestHelper(t)

	if err := helper.SetString(ctx, "token", "abc", time.Minute); err != nil {
		t.Fatalf("SetString failed: %v", err)
	}

	server.FastForward(2 * time.Minute)

	if _, err := helper.GetString(ctx, "token"); !errors.Is(err, ErrCacheNotFound) {
		t.Errorf("expected expiry to evict the key, got %v", err)
	}
}

func TestCacheHelperInvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper, server := newTestHelper(t)

	for _, key := range []string{"course:1", "course:2", "user:1"} {
		if err := helper.SetString(ctx, key, "v", time.Minute); err != nil {
			t.Fatalf("SetString failed: %v", err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "course:*"); err != nil {
		t.Fatalf("InvalidatePattern failed: %v", err)
	}

	if server.Exists("test:course:1") || server.Exists("test:course:2") {
		t.Error("expected course keys to be invalidated")
	}
	if !server.Exists("test:user:1") {
		t.Error("expected unrelated keys to survive")
	}
}

func TestCacheHelperNilClient(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "test:")

	if err := helper.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Errorf("Set with nil client should degrade gracefully, got %v", err)
	}
	var dest string
	if err := helper.Get(ctx, "k", &dest); !errors.Is(err, ErrCacheNotAvailable) {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheOrExecute(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestHelper(t)

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return map[string]int{"hits": calls}, nil
	}

	var first map[string]int
	if err := helper.CacheOrExecute(ctx, "stats", &first, time.Minute, fetch); err != nil {
		t.Fatalf("CacheOrExecute failed: %v", err)
	}
	if calls != 1 || first["hits"] != 1 {
		t.Errorf("expected one fetch, got calls=%d result=%v", calls, first)
	}

	// The write-back is asynchronous; wait for the key to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		var cached map[string]int
		if err := helper.Get(ctx, "stats", &cached); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cached value never appeared")
		}
		time.Sleep(10 * time.Millisecond)
	}

	var second map[string]int
	if err := helper.CacheOrExecute(ctx, "stats", &second, time.Minute, fetch); err != nil {
		t.Fatalf("second CacheOrExecute failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected cache hit to skip the fetch, calls=%d", calls)
	}
}
