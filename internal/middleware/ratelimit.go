package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/time/rate"
)

// RateLimitConfig describes a per-client token bucket.
type RateLimitConfig struct {
	Rate  rate.Limit               // sustained requests per second
	Burst int                      // bucket size; also reported as X-RateLimit-Limit
	Idle  time.Duration            // buckets unused for this long are evicted
	KeyFn func(c fiber.Ctx) string // returns the client key
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client key. Idle buckets are swept
// lazily on access, so no background goroutine is needed.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	config    RateLimitConfig
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a rate limiter with the given config.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Idle <= 0 {
		cfg.Idle = 10 * time.Minute
	}
	if cfg.KeyFn == nil {
		cfg.KeyFn = KeyByIP
	}
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		config:  cfg,
		now:     time.Now,
	}
}

// take consumes one token for key. When the bucket is empty it reports how
// long the client has to wait for the next token.
func (rl *RateLimiter) take(key string) (ok bool, remaining int, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	b, exists := rl.buckets[key]
	if !exists {
		b = &bucket{lim: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now

	r := b.lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, rl.config.Idle
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, 0, delay
	}
	return true, int(math.Max(0, math.Floor(b.lim.TokensAt(now)))), 0
}

func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.config.Idle {
		return
	}
	rl.lastSweep = now
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) >= rl.config.Idle {
			delete(rl.buckets, key)
		}
	}
}

// Allow reports whether a request for key may proceed, consuming a token if so.
func (rl *RateLimiter) Allow(key string) bool {
	ok, _, _ := rl.take(key)
	return ok
}

// Handler returns a Fiber middleware handler that enforces the rate limit.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		ok, remaining, retryAfter := rl.take(rl.config.KeyFn(c))

		c.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Burst))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if ok {
			return c.Next()
		}

		secs := int(math.Ceil(retryAfter.Seconds()))
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
		Logger.Debug().Str("request_id", RequestID(c)).Str("path", c.Path()).Int("retry_after", secs).Msg("rate limited")
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": fiber.Map{
				"code":       "RATE_LIMITED",
				"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", secs),
				"retryAfter": secs,
			},
		})
	}
}

// KeyByIP returns the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// NewAnalysisRateLimiter allows bursts of 30 per IP refilled at 30/min
// (trends and topics).
func NewAnalysisRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Rate:  rate.Every(2 * time.Second),
		Burst: 30,
		KeyFn: KeyByIP,
	})
}

// NewCompareRateLimiter allows bursts of 10 per IP refilled at 10/min.
func NewCompareRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Rate:  rate.Every(6 * time.Second),
		Burst: 10,
		KeyFn: KeyByIP,
	})
}
