package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiter tracks one client's token bucket and when it was last used, so
// idle entries can be evicted.
type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP using a token bucket.
//
// Behavior:
//   - Allows up to rps requests per second with the given burst per IP.
//   - Entries idle for more than ten minutes are evicted lazily.
//   - If the bucket is empty, returns HTTP 429 Too Many Requests.
//
// NOTE: state is in-memory and per instance. Multi-instance deployments need
// a shared store in front of this.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RateLimiter(10, 20))
func RateLimiter(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		clients  = make(map[string]*ipLimiter)
		lastScan = time.Now()
	)
	const idleTTL = 10 * time.Minute

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		if now.Sub(lastScan) > idleTTL {
			for addr, cl := range clients {
				if now.Sub(cl.lastSeen) > idleTTL {
					delete(clients, addr)
				}
			}
			lastScan = now
		}
		cl, ok := clients[ip]
		if !ok {
			cl = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}
