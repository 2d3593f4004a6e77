// Package ratelimit provides a wrapper around golang.org/x/time/rate.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps rate.Limiter with convenience methods.
type Limiter struct {
	limiter *rate.Limiter
}

// New creates a new rate limiter.
// requestsPerMinute specifies how many requests are allowed per minute.
func New(requestsPerMinute int) *Limiter {
	rps, burst := perMinute(requestsPerMinute)
	return &Limiter{
		limiter: rate.NewLimiter(rps, burst),
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Allow reports whether an event may happen now.
func (l *Limiter) Allow() bool {
	return l.limiter.Allow()
}

// KeyedLimiter keeps one limiter per key (for example a client IP).
// Idle keys are evicted after ttl.
type KeyedLimiter struct {
	rps   rate.Limit
	burst int
	ttl   time.Duration

	mu      sync.Mutex
	entries map[string]*keyedEntry
	lastGC  time.Time
	now     func() time.Time
}

type keyedEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewKeyed creates a per-key limiter allowing requestsPerMinute per key.
func NewKeyed(requestsPerMinute int, ttl time.Duration) *KeyedLimiter {
	rps, burst := perMinute(requestsPerMinute)
	return &KeyedLimiter{
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
		entries: make(map[string]*keyedEntry),
		now:     time.Now,
	}
}

// Allow reports whether key may make a request now.
func (k *KeyedLimiter) Allow(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	now := k.now()
	if now.Sub(k.lastGC) > k.ttl {
		for key, e := range k.entries {
			if now.Sub(e.lastSeen) > k.ttl {
				delete(k.entries, key)
			}
		}
		k.lastGC = now
	}

	e, ok := k.entries[key]
	if !ok {
		e = &keyedEntry{limiter: rate.NewLimiter(k.rps, k.burst)}
		k.entries[key] = e
	}
	e.lastSeen = now

	return e.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (k *KeyedLimiter) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

// perMinute converts a per-minute budget to a per-second rate with a 10% burst.
func perMinute(requestsPerMinute int) (rate.Limit, int) {
	rps := float64(requestsPerMinute) / 60.0
	burst := requestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}
	return rate.Limit(rps), burst
}
