package infra

import (
	"context"
	"sync"
	"testing"
	"time"

	"banner-guard/middleware/ratelimit/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisStore_AcquireFixedWindow(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewRedisStore(rdb, WithKeyPrefix("test:"))
	ctx := context.Background()
	p := domain.Policy{Max: 5, Window: time.Minute}
	now := time.UnixMilli(1_700_000_000_000)

	for i := 1; i <= 5; i++ {
		dec, err := s.Acquire(ctx, "u1", p, now)
		if err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		if !dec.Allowed || dec.Remaining != 5-i {
			t.Fatalf("call %d: unexpected decision %+v", i, dec)
		}
	}

	dec, err := s.Acquire(ctx, "u1", p, now.Add(10*time.Second))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if dec.Allowed {
		t.Fatalf("expected 6th call denied")
	}
	if dec.RetryAfter != 50*time.Second {
		t.Fatalf("expected RetryAfter=50s, got %s", dec.RetryAfter)
	}

	dec, _ = s.Acquire(ctx, "u1", p, now.Add(time.Minute+time.Millisecond))
	if !dec.Allowed || dec.Remaining != 4 {
		t.Fatalf("expected fresh window after expiry, got %+v", dec)
	}
}

func TestRedisStore_GetSetDelete(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)
	ctx := context.Background()
	reset := time.Now().Add(time.Minute).Truncate(time.Millisecond)

	if _, ok, err := s.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "k", domain.Entry{Count: 3, ResetAt: reset}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("ratelimit:win:k") {
		t.Fatalf("expected hash under default prefix")
	}
	if mr.TTL("ratelimit:win:k") <= 0 {
		t.Fatalf("expected ttl on key")
	}

	e, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if e.Count != 3 || !e.ResetAt.Equal(reset) {
		t.Fatalf("unexpected entry %+v", e)
	}

	_ = s.Delete(ctx, "k")
	if mr.Exists("ratelimit:win:k") {
		t.Fatalf("expected key deleted")
	}
}

func TestRedisStore_ConcurrentAcquireIsAtomic(t *testing.T) {
	_, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)
	p := domain.Policy{Max: 10, Window: time.Minute}
	now := time.Now()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dec, err := s.Acquire(context.Background(), "hot", p, now)
			if err == nil && dec.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 10 {
		t.Fatalf("expected 10 allowed, got %d", allowed)
	}
}

func TestRedisStore_SetExpiresFromEntryResetAt(t *testing.T) {
	mr, rdb := newTestRedis(t)
	s := NewRedisStore(rdb)

	// relógio do service bem longe do relógio de parede
	base := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	mr.SetTime(base)

	if err := s.Set(context.Background(), "k", domain.Entry{Count: 1, ResetAt: base.Add(time.Minute)}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := mr.TTL("ratelimit:win:k"); got != time.Minute+time.Second {
		t.Fatalf("expected ttl of window+1s, got %s", got)
	}
}
