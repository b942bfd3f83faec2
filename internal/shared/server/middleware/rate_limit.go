package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"ecotrack-backend/internal/shared/server/respond"
)

// Rate limit groups.
const (
	RateLimitGroupDefault = "DEFAULT"
	RateLimitGroupUpload  = "UPLOAD"
)

// staleBucketAfter is how long an idle bucket is kept before pruning.
const staleBucketAfter = 10 * time.Minute

type RateLimitRule struct {
	Rate  float64
	Burst int
}

type RateLimitConfig struct {
	Rules        map[string]RateLimitRule
	DefaultGroup string
	GroupFor     func(*gin.Context) string
	Limiter      *RateLimiter
}

// RateLimiter is a per-key token bucket limiter.
type RateLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*rateBucket
	now       func() time.Time
	lastPrune time.Time
}

type rateBucket struct {
	tokens float64
	last   time.Time
}

func NewRateLimiter(now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	return &RateLimiter{
		buckets: make(map[string]*rateBucket),
		now:     now,
	}
}

// DefaultRateLimitRules derives the rule set from the configured request rate.
// Uploads run the full analysis pipeline and get a fifth of the budget.
func DefaultRateLimitRules(rps float64, burst int) map[string]RateLimitRule {
	uploadBurst := burst / 5
	if uploadBurst < 1 {
		uploadBurst = 1
	}
	return map[string]RateLimitRule{
		RateLimitGroupDefault: {Rate: rps, Burst: burst},
		RateLimitGroupUpload:  {Rate: rps / 5, Burst: uploadBurst},
	}
}

// GroupForRoute puts image uploads in their own group.
func GroupForRoute(c *gin.Context) string {
	if c.Request.Method == http.MethodPost && c.FullPath() == "/api/v1/analysis/products" {
		return RateLimitGroupUpload
	}
	return RateLimitGroupDefault
}

func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limiter == nil {
		cfg.Limiter = NewRateLimiter(nil)
	}
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = RateLimitGroupDefault
	}
	return func(c *gin.Context) {
		group := cfg.DefaultGroup
		if cfg.GroupFor != nil {
			if g := strings.TrimSpace(cfg.GroupFor(c)); g != "" {
				group = g
			}
		}
		rule, ok := cfg.Rules[group]
		if !ok {
			c.Next()
			return
		}
		principal := strings.TrimSpace(UserIDFromContext(c))
		if principal == "" {
			principal = strings.TrimSpace(c.ClientIP())
		}
		allowed, retryAfter := cfg.Limiter.Allow(principal+"|"+group, rule)
		if allowed {
			c.Next()
			return
		}
		retryAfterMs := int(retryAfter / time.Millisecond)
		if retryAfterMs <= 0 {
			retryAfterMs = 1000
		}
		retryAfterSeconds := int(math.Ceil(float64(retryAfterMs) / 1000.0))
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		respond.Error(c, http.StatusTooManyRequests, "rate_limited", "too many requests", gin.H{
			"retryAfterMs": retryAfterMs,
			"group":        group,
		})
	}
}

// Allow consumes a token for key and reports how long to wait when none is left.
func (l *RateLimiter) Allow(key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil {
		return true, 0
	}
	if rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pruneLocked(now)
	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &rateBucket{
			tokens: float64(rule.Burst),
			last:   now,
		}
		l.buckets[key] = bucket
	}
	elapsed := now.Sub(bucket.last).Seconds()
	if elapsed > 0 {
		bucket.tokens = math.Min(float64(rule.Burst), bucket.tokens+elapsed*rule.Rate)
		bucket.last = now
	}
	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, 0
	}
	waitSec := (1 - bucket.tokens) / rule.Rate
	return false, time.Duration(math.Ceil(waitSec*1000.0)) * time.Millisecond
}

func (l *RateLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < staleBucketAfter {
		return
	}
	l.lastPrune = now
	for key, b := range l.buckets {
		if now.Sub(b.last) > staleBucketAfter {
			delete(l.buckets, key)
		}
	}
}
