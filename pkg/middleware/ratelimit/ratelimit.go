package ratelimit

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	appErrors "github.com/IgnacyBerent/biomed-kb-api/pkg/errors"
	"github.com/IgnacyBerent/biomed-kb-api/pkg/response"
)

// PerClient returns middleware that throttles requests per client IP using a
// token bucket. Buckets are created lazily; idle ones are dropped after an
// hour so the map does not grow unbounded.
func PerClient(perMinute, burst int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = perMinute
	}

	type bucket struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	limit := rate.Every(time.Minute / time.Duration(perMinute))

	cleanup := func(now time.Time) {
		for ip, b := range buckets {
			if now.Sub(b.lastSeen) > time.Hour {
				delete(buckets, ip)
			}
		}
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{limiter: rate.NewLimiter(limit, burst)}
			buckets[ip] = b
			cleanup(now)
		}
		b.lastSeen = now
		allowed := b.limiter.Allow()
		mu.Unlock()

		if !allowed {
			response.Error(c, appErrors.ErrTooManyRequests)
			c.Abort()
			return
		}

		c.Next()
	}
}
