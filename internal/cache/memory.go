package cache

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/mindsync/internal/screening"
)

type memoryEntry struct {
	snap      screening.Snapshot
	expiresAt time.Time
}

// MemoryCache is a process-local ScreeningCache. Expired entries are dropped
// lazily on access.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache returns an empty in-process cache. A non-positive ttl uses DefaultTTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttlOrDefault(ttl),
		now:     time.Now,
	}
}

func (c *MemoryCache) Set(_ context.Context, id string, snap screening.Snapshot) error {
	answers := make([]int, len(snap.Answers))
	copy(answers, snap.Answers)
	snap.Answers = answers

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key(id)] = memoryEntry{snap: snap, expiresAt: c.now().Add(c.ttl)}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, id string) (screening.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key(id)]
	if !ok {
		return screening.Snapshot{}, ErrMiss
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key(id))
		return screening.Snapshot{}, ErrMiss
	}
	answers := make([]int, len(e.snap.Answers))
	copy(answers, e.snap.Answers)
	return screening.Snapshot{Answers: answers, State: e.snap.State}, nil
}

func (c *MemoryCache) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key(id))
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
