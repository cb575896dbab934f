package middlewares

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/dinein/utils"
	"golang.org/x/time/rate"
)

// KeyFunc picks the bucket a request is counted against.
type KeyFunc func(c *gin.Context) string

func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// SessionClientKey counts per client and table session.
func SessionClientKey(c *gin.Context) string {
	return c.ClientIP() + "|" + c.Param("session_id")
}

// DefaultIdleTTL is how long a key may go unseen before its bucket is dropped.
const DefaultIdleTTL = 10 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter keeps one token bucket per key. Buckets idle for IdleTTL are
// swept once they have refilled, so a dropped key comes back with the same
// allowance it would have had anyway.
type RateLimiter struct {
	limit     rate.Limit
	burst     int
	key       KeyFunc
	buckets   map[string]*bucket
	lastSweep time.Time
	mu        sync.Mutex

	IdleTTL time.Duration
	Now     func() time.Time
}

func NewRateLimiter(rps float64, burst int, key KeyFunc) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	if key == nil {
		key = ClientIPKey
	}
	return &RateLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		key:     key,
		buckets: make(map[string]*bucket),
		IdleTTL: DefaultIdleTTL,
		Now:     time.Now,
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.Now()
	if rl.lastSweep.IsZero() {
		rl.lastSweep = now
	}
	if rl.IdleTTL > 0 && now.Sub(rl.lastSweep) >= rl.IdleTTL {
		rl.sweep(now)
	}

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// sweep drops buckets that are idle and full again. Caller holds mu.
func (rl *RateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-rl.IdleTTL)
	for key, b := range rl.buckets {
		if b.seen.Before(cutoff) && b.lim.TokensAt(now) >= float64(rl.burst) {
			delete(rl.buckets, key)
		}
	}
	rl.lastSweep = now
}

// Len reports how many keys currently hold a bucket.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(rl.key(c)) {
			utils.RespondAppError(c, utils.NewError(utils.KindRateLimited, "too many requests, slow down"))
			c.Abort()
			return
		}
		c.Next()
	}
}
