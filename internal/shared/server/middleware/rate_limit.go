package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"tender-backend/internal/shared/server/respond"
)

// pruneEvery is how many Allow calls pass between sweeps of idle buckets.
const pruneEvery = 256

// RateLimitRule is a token bucket refilled at Rate tokens per second up to Burst.
type RateLimitRule struct {
	Rate  float64
	Burst int
}

// refillTime is how long an empty bucket takes to become full again.
func (r RateLimitRule) refillTime() time.Duration {
	return time.Duration(float64(r.Burst) / r.Rate * float64(time.Second))
}

// RateLimitConfig maps route groups to rules. Requests whose group has no rule pass through.
// KeyFor identifies the caller; it defaults to the client IP.
type RateLimitConfig struct {
	Rules    map[string]RateLimitRule
	GroupFor func(*gin.Context) string
	KeyFor   func(*gin.Context) string
	Limiter  *RateLimiter
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter holds per-caller buckets.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
	calls   int
	now     func() time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
	idle   time.Duration
}

// NewRateLimiter builds a limiter using now as its clock; nil means time.Now.
func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// RateLimit enforces cfg per caller and route group.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	return func(c *gin.Context) {
		if cfg.GroupFor == nil {
			c.Next()
			return
		}
		group := strings.TrimSpace(cfg.GroupFor(c))
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		caller := c.ClientIP()
		if cfg.KeyFor != nil {
			if k := strings.TrimSpace(cfg.KeyFor(c)); k != "" {
				caller = k
			}
		}

		d := cfg.Limiter.Allow(group+"|"+caller, rule)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if d.Allowed {
			c.Next()
			return
		}
		retryAfterMs := max(int(d.RetryAfter/time.Millisecond), 1)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(float64(retryAfterMs)/1000.0))))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", gin.H{
			"group":        group,
			"retryAfterMs": retryAfterMs,
		})
	}
}

// Allow consumes one token for key. Rules with a non-positive rate or burst never limit.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) Decision {
	if l == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return Decision{Allowed: true, Remaining: rule.Burst}
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls%pruneEvery == 0 {
		l.prune(now)
	}

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{tokens: float64(rule.Burst), last: now, idle: rule.refillTime()}
		l.buckets[key] = bucket
	}
	if elapsed := now.Sub(bucket.last).Seconds(); elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return Decision{Allowed: true, Remaining: int(bucket.tokens)}
	}
	waitSec := (1 - bucket.tokens) / rule.Rate
	return Decision{RetryAfter: time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond}
}

// prune drops buckets that have refilled completely; recreating them is equivalent.
func (l *RateLimiter) prune(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.last) >= b.idle {
			delete(l.buckets, key)
		}
	}
}

// Len reports the number of tracked buckets.
func (l *RateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
