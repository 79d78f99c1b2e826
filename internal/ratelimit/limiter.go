// Package ratelimit keeps one token bucket per client key.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// staleAfter 之后未再出现且令牌已满的桶会被回收。
const staleAfter = 10 * time.Minute

// Limiter manages token buckets per key.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter allows requests tokens per window with the given burst capacity.
func NewLimiter(requests int, window time.Duration, burst int) *Limiter {
	if requests <= 0 || window <= 0 {
		return &Limiter{rate: rate.Inf, burst: burst, buckets: map[string]*bucket{}, now: time.Now}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		buckets: make(map[string]*bucket),
		rate:    rate.Limit(float64(requests) / window.Seconds()),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes a token for key. When no token is available it returns false
// and how long the caller should wait.
func (l *Limiter) Allow(key string) (bool, time.Duration) {
	if l.rate == rate.Inf {
		return true, 0
	}

	now := l.now()
	l.mu.Lock()
	if now.Sub(l.lastSweep) > staleAfter {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, time.Second
	}
	delay := reservation.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	if delay < time.Second {
		delay = time.Second
	}
	return false, delay
}

func (l *Limiter) sweep(now time.Time) {
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > staleAfter && b.limiter.TokensAt(now) >= float64(l.burst) {
			delete(l.buckets, key)
		}
	}
}

// Len reports how many buckets are tracked.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
