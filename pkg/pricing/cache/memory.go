package cache

import (
	"context"
	"sync"
	"time"

	"gc.dev/game-prices/pkg/pricing/sources"
)

const sweepInterval = 10 * time.Minute

type memoryEntry struct {
	quotes    []sources.Quote
	expiresAt time.Time
}

// Memory is an in-process TTL cache. Unbounded apart from TTL; expired
// entries are dropped by a periodic sweep so long-idle fingerprints do not
// accumulate forever.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	stop    chan struct{}
	stopped sync.Once
}

// NewMemory creates an in-memory cache with the given TTL and starts the
// sweep goroutine. Call Close when done.
func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Get returns the cached quote list if the entry has not expired.
func (m *Memory) Get(_ context.Context, fingerprint string) ([]sources.Quote, bool) {
	m.mu.RLock()
	entry, ok := m.entries[fingerprint]
	m.mu.RUnlock()

	if !ok || !m.now().Before(entry.expiresAt) {
		return nil, false
	}
	return copyQuotes(entry.quotes), true
}

// Put replaces the entry for fingerprint with a fresh TTL.
func (m *Memory) Put(_ context.Context, fingerprint string, quotes []sources.Quote) {
	entry := memoryEntry{
		quotes:    copyQuotes(quotes),
		expiresAt: m.now().Add(m.ttl),
	}

	m.mu.Lock()
	m.entries[fingerprint] = entry
	m.mu.Unlock()
}

// Close stops the sweep goroutine.
func (m *Memory) Close() {
	m.stopped.Do(func() { close(m.stop) })
}

func (m *Memory) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	now := m.now()
	m.mu.Lock()
	for key, entry := range m.entries {
		if !now.Before(entry.expiresAt) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}
