package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBucket implements Bucket as a fixed-window counter in Redis, the same
// INCR+EXPIRE pattern the teacher's security.RateLimiter used for
// signature-failure throttling, adapted here to gate per-agent scrape calls
// so multiple engine instances can share one agent's quota.
type RedisBucket struct {
	client *redis.Client
	key    string
	limit  int
	window time.Duration
}

// NewRedisBucket builds a RedisBucket keyed by agentKey, allowing up to
// requestsPerMinute+burst calls per fixed one-minute window (the window
// starts at the first call and expires a minute later).
func NewRedisBucket(client *redis.Client, agentKey string, requestsPerMinute, burst int) *RedisBucket {
	return &RedisBucket{
		client: client,
		key:    fmt.Sprintf("jobseeker:ratelimit:%s", agentKey),
		limit:  requestsPerMinute + burst,
		window: time.Minute,
	}
}

// Wait polls the window counter until a slot opens or budget expires. On any
// Redis error it fails open, mirroring the teacher's "Redis unavailable:
// allow the request" posture.
func (b *RedisBucket) Wait(ctx context.Context, budget time.Duration) bool {
	if b.client == nil {
		return true
	}

	deadline := time.Now().Add(budget)
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()

	for {
		ok, err := b.tryAcquire(ctx)
		if err != nil {
			return true
		}
		if ok {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

func (b *RedisBucket) tryAcquire(ctx context.Context) (bool, error) {
	count, err := b.client.Incr(ctx, b.key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		b.client.Expire(ctx, b.key, b.window)
	}
	if int(count) > b.limit {
		return false, nil
	}
	return true, nil
}
