package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is a bounded in-process cache. Expired entries are dropped on read
// and by Sweep; once MaxEntries is reached the oldest entry is evicted.
type Memory struct {
	mu         sync.Mutex
	items      map[string]memItem
	maxEntries int
	now        func() time.Time
}

type memItem struct {
	entry Entry
	exp   time.Time
}

func NewMemory(maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Memory{
		items:      make(map[string]memItem),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// WithClock replaces the clock used for expiry, for tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Get(_ context.Context, key string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[key]
	if !ok {
		return Entry{}, false
	}
	if !it.exp.IsZero() && !m.now().Before(it.exp) {
		delete(m.items, key)
		return Entry{}, false
	}
	return it.entry, true
}

func (m *Memory) Set(_ context.Context, key string, e Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if _, ok := m.items[key]; !ok && len(m.items) >= m.maxEntries {
		m.sweepLocked(now)
		if len(m.items) >= m.maxEntries {
			m.evictOldestLocked()
		}
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	m.items[key] = memItem{entry: e, exp: exp}
	return nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Sweep removes every expired entry and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sweepLocked(m.now())
}

// Run sweeps every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Memory) sweepLocked(now time.Time) int {
	n := 0
	for k, it := range m.items {
		if !it.exp.IsZero() && !now.Before(it.exp) {
			delete(m.items, k)
			n++
		}
	}
	return n
}

func (m *Memory) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
		found     bool
	)
	for k, it := range m.items {
		if !found || it.entry.FetchedAt.Before(oldest) {
			oldestKey, oldest, found = k, it.entry.FetchedAt, true
		}
	}
	if found {
		delete(m.items, oldestKey)
	}
}
