package cache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Memory is an in-process Backend. Expired entries are removed lazily on read
// and by a periodic sweep that also enforces maxSize.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	maxSize int
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64

	stopOnce sync.Once
	stopCh   chan struct{}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory creates a memory cache. A zero sweepInterval disables the
// background sweep, which tests rely on.
func NewMemory(maxSize int, sweepInterval time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		maxSize: maxSize,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if sweepInterval > 0 {
		go m.sweepLoop(sweepInterval)
	}
	return m
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		m.misses.Add(1)
		return nil, false, nil
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		m.misses.Add(1)
		return nil, false, nil
	}
	m.hits.Add(1)
	return e.value, true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) GetMultiple(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if v, ok, _ := m.Get(ctx, key); ok {
			result[key] = v
		}
	}
	return result, nil
}

func (m *Memory) SetMultiple(ctx context.Context, items map[string][]byte, ttl time.Duration) error {
	expiresAt := m.now().Add(ttl)
	m.mu.Lock()
	for key, value := range items {
		m.entries[key] = memoryEntry{value: value, expiresAt: expiresAt}
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stopCh) })
	return nil
}

// Stats returns hit and miss counts since creation.
func (m *Memory) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	type live struct {
		key       string
		expiresAt time.Time
	}
	var remaining []live
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
			continue
		}
		remaining = append(remaining, live{k, e.expiresAt})
	}

	// Over capacity: evict the entries closest to expiry first
	if m.maxSize > 0 && len(remaining) > m.maxSize {
		sort.Slice(remaining, func(i, j int) bool {
			return remaining[i].expiresAt.Before(remaining[j].expiresAt)
		})
		for _, e := range remaining[:len(remaining)-m.maxSize] {
			delete(m.entries, e.key)
		}
	}
}
