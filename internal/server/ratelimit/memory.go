package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryCounter is an in-process Counter. Entries expire lazily: a
// sweep runs at most once per sweepInterval, piggybacked on Incr calls,
// so the map does not grow without bound under sustained traffic.
type MemoryCounter struct {
	mu        sync.Mutex
	counts    map[string]*memoryBucket
	lastSweep time.Time
	now       func() time.Time
}

type memoryBucket struct {
	n         int64
	expiresAt time.Time
}

const sweepInterval = time.Minute

// NewMemoryCounter constructs an empty in-process counter store.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]*memoryBucket), now: time.Now}
}

func (c *MemoryCounter) Incr(ctx context.Context, key string, expiry time.Duration) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= sweepInterval {
		c.sweepLocked(now)
	}

	b, ok := c.counts[key]
	if !ok || now.After(b.expiresAt) {
		b = &memoryBucket{expiresAt: now.Add(expiry)}
		c.counts[key] = b
	}
	b.n++
	return b.n, nil
}

func (c *MemoryCounter) sweepLocked(now time.Time) {
	for key, b := range c.counts {
		if now.After(b.expiresAt) {
			delete(c.counts, key)
		}
	}
	c.lastSweep = now
}
