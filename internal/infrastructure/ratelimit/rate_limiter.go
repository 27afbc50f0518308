package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionReserve     = "reserve"
	ActionSendMessage = "send_message"
)

// Policy is one refill interval plus burst size.
type Policy struct {
	Every time.Duration
	Burst int
}

var defaultPolicy = Policy{Every: 3 * time.Second, Burst: 20}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func (b *bucket) touch(now time.Time) {
	b.lastSeen.Store(now.UnixNano())
}

// RateLimiter keeps one token bucket per user and action.
type RateLimiter struct {
	policies map[string]Policy
	buckets  map[string]*bucket
	mutex    sync.RWMutex
}

func NewRateLimiter(policies map[string]Policy) *RateLimiter {
	return &RateLimiter{
		policies: policies,
		buckets:  make(map[string]*bucket),
	}
}

// Allow consumes a token for the user action. When the bucket is empty it
// reports how long until the next token.
func (rl *RateLimiter) Allow(userID, action string) (bool, time.Duration) {
	now := time.Now()
	b := rl.bucket(userID+":"+action, action)
	b.touch(now)

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

func (rl *RateLimiter) bucket(key, action string) *bucket {
	rl.mutex.RLock()
	b, exists := rl.buckets[key]
	rl.mutex.RUnlock()
	if exists {
		return b
	}

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	if b, exists = rl.buckets[key]; exists {
		return b
	}

	policy, ok := rl.policies[action]
	if !ok {
		policy = defaultPolicy
	}
	b = &bucket{limiter: rate.NewLimiter(rate.Every(policy.Every), policy.Burst)}
	rl.buckets[key] = b
	return b
}

// Tokens returns the tokens currently left for a user action.
func (rl *RateLimiter) Tokens(userID, action string) float64 {
	return rl.bucket(userID+":"+action, action).limiter.Tokens()
}

// Len reports how many buckets are held.
func (rl *RateLimiter) Len() int {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()
	return len(rl.buckets)
}

// Cleanup drops buckets unused for longer than idle. A bucket that has not
// refilled yet is kept so eviction never hands out extra tokens.
func (rl *RateLimiter) Cleanup(now time.Time, idle time.Duration) int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	removed := 0
	for key, b := range rl.buckets {
		if now.Sub(time.Unix(0, b.lastSeen.Load())) <= idle {
			continue
		}
		if b.limiter.TokensAt(now) < float64(b.limiter.Burst()) {
			continue
		}
		delete(rl.buckets, key)
		removed++
	}
	return removed
}

// StartCleanupRoutine runs Cleanup every interval until ctx is done.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval, idle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.Cleanup(now, idle)
			}
		}
	}()
}
