package redisad

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"bankpulse/internal/domain"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return New(mr.Addr(), "", 0)
}

func TestCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	banks := []domain.Bank{
		{ID: 1, Name: "Commercial Bank of Ethiopia", AppName: "CBE Mobile"},
		{ID: 2, Name: "Dashen Bank", AppName: "Amole"},
	}
	if err := c.Set(ctx, "banks", banks, 60); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var got []domain.Bank
	ok, err := c.Get(ctx, "banks", &got)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[1].AppName != "Amole" {
		t.Fatalf("round trip: %+v", got)
	}
}

func TestCache_MissAndDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	var dst []domain.Bank
	ok, err := c.Get(ctx, "absent", &dst)
	if err != nil {
		t.Fatalf("miss must not be an error: %v", err)
	}
	if ok {
		t.Fatalf("expected a miss")
	}

	if err := c.Set(ctx, "k", "v", 60); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	var s string
	if ok, _ := c.Get(ctx, "k", &s); ok {
		t.Fatalf("deleted key must miss")
	}
}

func TestCache_TTLApplied(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	c := New(mr.Addr(), "", 0)

	if err := c.Set(context.Background(), "short", 1, 30); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl := mr.TTL("short"); ttl <= 0 {
		t.Fatalf("expected a positive TTL, got %v", ttl)
	}

	mr.FastForward(mr.TTL("short") + 1)
	var n int
	if ok, _ := c.Get(context.Background(), "short", &n); ok {
		t.Fatalf("expired key must miss")
	}
}
