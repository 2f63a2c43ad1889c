package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter keeps one token bucket per client IP. Idle buckets are
// dropped by a janitor goroutine so the map does not grow unbounded.
type IPRateLimiter struct {
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
	rps      rate.Limit
	burst    int
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	rl := &IPRateLimiter{
		visitors: make(map[string]*rate.Limiter),
		rps:      r,
		burst:    b,
	}

	go rl.janitor()

	return rl
}

func (rl *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.visitors[ip]
	if !exists {
		limiter = rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = limiter
	}

	return limiter
}

func (rl *IPRateLimiter) janitor() {
	for {
		time.Sleep(10 * time.Minute)

		rl.mu.Lock()
		for ip, v := range rl.visitors {
			// A full bucket means the visitor has been idle; drop it.
			if v.Tokens() >= float64(rl.burst) {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !limiter.GetLimiter(ctx.ClientIP()).Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please wait."})
			return
		}
		ctx.Next()
	}
}
