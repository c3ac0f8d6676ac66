package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/yeremiapane/restaurant-pos/utils"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	clients map[string]*visitor
	mu      sync.Mutex
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows burst requests at once and refills one every interval.
func NewRateLimiter(burst int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   rate.Every(interval),
		burst:   burst,
		ttl:     10 * time.Minute,
		clients: make(map[string]*visitor),
	}
}

// NewLoginRateLimiter is the stricter limiter for the login endpoint: 5
// attempts, then one per 12 seconds.
func NewLoginRateLimiter() *RateLimiter {
	return NewRateLimiter(5, 12*time.Second)
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.clients[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = v
	}
	v.lastSeen = now

	for key, other := range rl.clients {
		if now.Sub(other.lastSeen) > rl.ttl {
			delete(rl.clients, key)
		}
	}
	return v.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			utils.InfoLogger.Warnf("Rate limit hit by %s on %s", c.ClientIP(), c.FullPath())
			c.Header("Retry-After", "10")
			c.JSON(http.StatusTooManyRequests, utils.JSONResponse{
				Status: false,
				Error:  "too many requests, please wait a moment",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
