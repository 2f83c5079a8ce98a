package otp

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies an independent token bucket to every phone number
type RateLimiter struct {
	perMinute int
	burst     int
	limiters  map[string]*keyLimiter
	mu        sync.Mutex
	idle      time.Duration
	stop      chan struct{}
	once      sync.Once
}

// NewRateLimiter allows perMinute issues per key with the given burst.
// A non-positive perMinute disables limiting.
func NewRateLimiter(perMinute, burst int, cleanupEvery time.Duration) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	rl := &RateLimiter{
		perMinute: perMinute,
		burst:     burst,
		limiters:  make(map[string]*keyLimiter),
		idle:      10 * time.Minute,
		stop:      make(chan struct{}),
	}
	if cleanupEvery > 0 {
		go rl.cleanupRoutine(cleanupEvery)
	}
	return rl
}

// Allow reports whether key may proceed now
func (rl *RateLimiter) Allow(key string) bool {
	if rl.perMinute <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	kl, ok := rl.limiters[key]
	if !ok {
		kl = &keyLimiter{limiter: rate.NewLimiter(rate.Limit(float64(rl.perMinute)/60.0), rl.burst)}
		rl.limiters[key] = kl
	}
	kl.lastSeen = time.Now()
	return kl.limiter.Allow()
}

// Stop ends the cleanup routine
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) cleanupRoutine(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stop:
			return
		}
	}
}

// cleanup forgets keys idle for longer than rl.idle; their buckets would be full again anyway
func (rl *RateLimiter) cleanup(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, kl := range rl.limiters {
		if now.Sub(kl.lastSeen) > rl.idle {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}
