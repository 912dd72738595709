package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter 按 key 维护独立的令牌桶，空闲超过 idleTTL 的桶在下次访问时回收。
type KeyedLimiter struct {
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time

	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
}

// NewKeyedLimiter creates a limiter from opts. A nil or disabled opts yields nil,
// and a nil *KeyedLimiter allows everything.
func NewKeyedLimiter(opts *RateLimitOptions) *KeyedLimiter {
	if opts == nil || !opts.Enabled {
		return nil
	}
	idle := opts.IdleTTL
	if idle <= 0 {
		idle = 10 * time.Minute
	}
	return &KeyedLimiter{
		rps:      rate.Limit(opts.RPS),
		burst:    opts.Burst,
		idleTTL:  idle,
		now:      time.Now,
		limiters: make(map[string]*limiterEntry),
	}
}

// Allow reports whether one more event for key may happen now.
func (l *KeyedLimiter) Allow(key string) bool {
	if l == nil {
		return true
	}

	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastSweep) > l.idleTTL {
		for k, e := range l.limiters {
			if now.Sub(e.lastSeen) > l.idleTTL {
				delete(l.limiters, k)
			}
		}
		l.lastSweep = now
	}
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	l.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

// Len returns the number of tracked keys.
func (l *KeyedLimiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}
