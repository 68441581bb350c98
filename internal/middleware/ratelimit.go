package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/flight-demand-go/pkg/response"
)

// RateLimiter is a sliding-window limiter keyed by client.
type RateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	limit    int           // Maximum requests per window
	window   time.Duration // Time window
	now      func() time.Time
	lastGC   time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastGC) >= rl.window {
		rl.collect(now)
	}

	valid := rl.prune(rl.requests[key], now)
	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}
	rl.requests[key] = append(valid, now)
	return true
}

// RetryAfter is how long key has to wait before Allow can pass again.
func (rl *RateLimiter) RetryAfter(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	valid := rl.prune(rl.requests[key], now)
	if len(valid) < rl.limit {
		return 0
	}
	return rl.window - now.Sub(valid[len(valid)-rl.limit])
}

func (rl *RateLimiter) prune(times []time.Time, now time.Time) []time.Time {
	i := 0
	for i < len(times) && now.Sub(times[i]) >= rl.window {
		i++
	}
	return times[i:]
}

// collect drops keys with no requests left in the window. Called with mu held.
func (rl *RateLimiter) collect(now time.Time) {
	for key, times := range rl.requests {
		if valid := rl.prune(times, now); len(valid) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = valid
		}
	}
	rl.lastGC = now
}

// RateLimit middleware limits requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(key) {
			response.TooManyRequests(c, limiter.RetryAfter(key))
			c.Abort()
			return
		}
		c.Next()
	}
}
