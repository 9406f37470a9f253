package cache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(10).WithClock(c.now)

	if err := m.Set(ctx, "k", Entry{Body: []byte("v"), FetchedAt: c.t}, time.Minute); err != nil {
		t.Fatal(err)
	}
	c.t = c.t.Add(59 * time.Second)
	e, ok := m.Get(ctx, "k")
	if !ok || string(e.Body) != "v" {
		t.Fatalf("expected fresh entry, got %v %q", ok, e.Body)
	}
	c.t = c.t.Add(time.Second)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Fatal("expected entry expired at ttl")
	}
	if m.Len() != 0 {
		t.Fatalf("expected expired entry dropped, len %d", m.Len())
	}
}

func TestMemoryEvictsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(2).WithClock(c.now)

	_ = m.Set(ctx, "a", Entry{Body: []byte("a"), FetchedAt: c.t}, time.Hour)
	_ = m.Set(ctx, "b", Entry{Body: []byte("b"), FetchedAt: c.t.Add(time.Second)}, time.Hour)
	_ = m.Set(ctx, "c", Entry{Body: []byte("c"), FetchedAt: c.t.Add(2 * time.Second)}, time.Hour)

	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	if _, ok := m.Get(ctx, "a"); ok {
		t.Fatal("expected oldest entry evicted")
	}
	if _, ok := m.Get(ctx, "c"); !ok {
		t.Fatal("expected newest entry kept")
	}
}

func TestMemoryOverwriteDoesNotEvict(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(1)
	_ = m.Set(ctx, "a", Entry{Body: []byte("1")}, 0)
	_ = m.Set(ctx, "a", Entry{Body: []byte("2")}, 0)
	e, ok := m.Get(ctx, "a")
	if !ok || string(e.Body) != "2" {
		t.Fatalf("expected overwritten entry, got %v %q", ok, e.Body)
	}
}

func TestMemorySweep(t *testing.T) {
	ctx := context.Background()
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory(10).WithClock(c.now)
	_ = m.Set(ctx, "short", Entry{}, time.Second)
	_ = m.Set(ctx, "long", Entry{}, time.Hour)
	_ = m.Set(ctx, "forever", Entry{}, 0)

	c.t = c.t.Add(time.Minute)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("expected 1 swept, got %d", n)
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 left, got %d", m.Len())
	}
}

func TestNewFallsBackToMemory(t *testing.T) {
	sugar := zaptest.NewLogger(t).Sugar()
	if _, ok := New(Config{}, sugar).(*Memory); !ok {
		t.Fatal("expected memory cache by default")
	}
	if _, ok := New(Config{Backend: BackendRedis, RedisURL: "://bad"}, sugar).(*Memory); !ok {
		t.Fatal("expected memory cache on bad redis url")
	}
}
