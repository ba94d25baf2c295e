package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiters hands out one token bucket per client IP. Entries idle longer
// than the ttl are dropped so the map does not grow without bound.
type ipLimiters struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	rate      rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
}

type ipLimiter struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newIPLimiters(r rate.Limit, burst int) *ipLimiters {
	return &ipLimiters{
		limiters:  make(map[string]*ipLimiter),
		rate:      r,
		burst:     burst,
		ttl:       10 * time.Minute,
		lastSweep: time.Now(),
	}
}

func (l *ipLimiters) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastSweep) > l.ttl {
		for addr, entry := range l.limiters {
			if now.Sub(entry.seen) > l.ttl {
				delete(l.limiters, addr)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.seen = now
	return entry.limiter
}

// RateLimit limits requests per client IP. The rate is expressed as requests
// per window; the burst equals the full window allowance.
func RateLimit(requests int, window time.Duration) gin.HandlerFunc {
	limiters := newIPLimiters(rate.Every(window/time.Duration(requests)), requests)

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		if !limiters.get(clientIP).Allow() {
			slog.Warn("rate limit exceeded",
				"client_ip", clientIP,
				"request_id", GetRequestID(c),
			)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
