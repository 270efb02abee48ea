// Package ratelimit implements fixed-window counters over a pluggable
// counter store. Checks are O(1) increment-and-compare and never block
// the caller.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Counter increments the count for key within its window and returns
// the new total. Keys embed the window number, so a counter store needs
// no explicit reset; expired windows are simply never read again.
type Counter interface {
	Incr(ctx context.Context, key string, expiry time.Duration) (int64, error)
}

// Limiter answers allow/deny for the resolution and generation caps.
type Limiter struct {
	counter Counter
	now     func() time.Time
}

// NewLimiter constructs a Limiter over the given counter store.
func NewLimiter(counter Counter) *Limiter {
	return &Limiter{counter: counter, now: time.Now}
}

// AllowIP checks the per-IP per-minute cap. A zero cap always allows.
func (l *Limiter) AllowIP(ctx context.Context, ip string, perMin int) (bool, error) {
	if perMin <= 0 {
		return true, nil
	}
	return l.allow(ctx, "ip:"+ip, perMin)
}

// AllowToken checks a per-token per-minute cap. A zero cap always
// allows.
func (l *Limiter) AllowToken(ctx context.Context, tokenID string, perMin int) (bool, error) {
	if perMin <= 0 {
		return true, nil
	}
	return l.allow(ctx, "tok:"+tokenID, perMin)
}

// AllowGeneration checks the per-user daily generation quota. Exempt
// callers and a zero quota always pass.
func (l *Limiter) AllowGeneration(ctx context.Context, user string, perDay int, exempt bool) (bool, error) {
	if perDay <= 0 || exempt {
		return true, nil
	}
	day := l.now().UTC().Format("20060102")
	key := fmt.Sprintf("gen:%s:%s", user, day)
	n, err := l.counter.Incr(ctx, key, 24*time.Hour)
	if err != nil {
		return false, err
	}
	return n <= int64(perDay), nil
}

// allow increments the key's current one-minute bucket and compares
// against the cap. The window key is floor(unix/60); the store expiry
// is slightly over a minute so a bucket outlives its window.
func (l *Limiter) allow(ctx context.Context, key string, perMin int) (bool, error) {
	window := l.now().Unix() / 60
	bucket := fmt.Sprintf("%s:%d", key, window)
	n, err := l.counter.Incr(ctx, bucket, 70*time.Second)
	if err != nil {
		return false, err
	}
	return n <= int64(perMin), nil
}
