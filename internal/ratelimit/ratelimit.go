// Package ratelimit provides the per-agent token bucket the Execution
// Scheduler (C6) consults before dispatching a call, per spec.md §4.5. The
// default backend is in-process; an optional Redis-backed backend lets
// multiple engine instances share one agent's quota.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Bucket is a per-agent rate limiter. Wait blocks until a token is
// available, the context is cancelled, or the supplied budget elapses,
// whichever comes first.
type Bucket interface {
	// Wait blocks until a token is available or budget/ctx expires. It
	// returns false if no token could be acquired within budget.
	Wait(ctx context.Context, budget time.Duration) bool
}

// Limiter owns one Bucket per agent, lazily constructed from a factory so
// callers never need to know which backend is active.
type Limiter struct {
	factory func(rpm, burst int) Bucket

	mu      sync.Mutex
	buckets map[string]Bucket
	specs   map[string][2]int
}

// NewLimiter builds a Limiter that constructs buckets with newBucket.
func NewLimiter(newBucket func(rpm, burst int) Bucket) *Limiter {
	return &Limiter{
		factory: newBucket,
		buckets: make(map[string]Bucket),
		specs:   make(map[string][2]int),
	}
}

// Wait acquires a token for agentKey, lazily provisioning its bucket with
// (rpm, burst) on first use. Subsequent calls with a different (rpm, burst)
// for the same key are ignored — the registry's rate limit is static.
//
// The scheduler runs one goroutine per selected agent, each calling Wait
// with its own agentKey on this shared, engine-level Limiter; map access is
// guarded so concurrent first-use across distinct agents can't race.
func (l *Limiter) Wait(ctx context.Context, agentKey string, rpm, burst int, budget time.Duration) bool {
	l.mu.Lock()
	b, ok := l.buckets[agentKey]
	if !ok {
		b = l.factory(rpm, burst)
		l.buckets[agentKey] = b
		l.specs[agentKey] = [2]int{rpm, burst}
	}
	l.mu.Unlock()

	return b.Wait(ctx, budget)
}
