package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"rubconv/internal/config"
	"rubconv/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// exemptPrefixes are never rate limited
var exemptPrefixes = []string{
	"/swagger/",
	"/api/v1/health",
	"/static/",
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements per-client rate limiting using a token bucket
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
	window   time.Duration
	requests int
	stop     chan struct{}
	stopOnce sync.Once
	// done is closed once the cleanup goroutine has exited
	done chan struct{}
}

// NewRateLimiter creates a new rate limiter middleware
func NewRateLimiter(cfg *config.Config) *RateLimiter {
	requests := cfg.RateLimit.Requests
	if requests <= 0 {
		requests = 1
	}
	window := time.Duration(cfg.RateLimit.Window) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	burst := cfg.RateLimit.Burst
	if burst <= 0 || burst > requests {
		burst = requests
	}

	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Every(window / time.Duration(requests)),
		burst:    burst,
		idleTTL:  time.Hour,
		window:   window,
		requests: requests,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go rl.cleanupRoutine(rl.idleTTL)

	return rl
}

// Stop ends the background cleanup and waits for it to exit. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	<-rl.done
}

// getLimiter returns the limiter for key, creating it on first use
func (rl *RateLimiter) getLimiter(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops limiters idle since before cutoff and returns how many were removed
func (rl *RateLimiter) sweep(cutoff time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
			removed++
		}
	}
	return removed
}

func (rl *RateLimiter) cleanupRoutine(every time.Duration) {
	defer close(rl.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.sweep(now.Add(-rl.idleTTL))
		}
	}
}

func isExempt(path string) bool {
	for _, prefix := range exemptPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Middleware returns a Gin middleware function that implements rate limiting
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isExempt(c.Request.URL.Path) {
			c.Next()
			return
		}

		now := time.Now()
		limiter := rl.getLimiter(c.ClientIP(), now)

		r := limiter.ReserveN(now, 1)
		if !r.OK() {
			rl.reject(c, now, rl.window)
			return
		}
		if delay := r.DelayFrom(now); delay > 0 {
			// The request is refused, so give the token back
			r.CancelAt(now)
			rl.reject(c, now, delay)
			return
		}

		remaining := int(limiter.TokensAt(now))
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(rl.window).Unix()))

		c.Next()
	}
}

func (rl *RateLimiter) reject(c *gin.Context, now time.Time, wait time.Duration) {
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.requests))
	c.Header("X-RateLimit-Remaining", "0")
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(wait).Unix()))
	c.Header("Retry-After", fmt.Sprintf("%d", seconds))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
		Error: fmt.Sprintf("rate limit exceeded, retry after %ds", seconds),
	})
}
