package controller

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS allows the page to be served from another origin during development.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// ClientLimiter hands out one token bucket per client IP.
type ClientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// NewClientLimiter allows perMinute requests per client with the given burst.
func NewClientLimiter(perMinute, burst int) *ClientLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &ClientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
	}
}

// Allow reports whether client may make a request now.
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	lim, ok := l.limiters[client]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[client] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// RateLimit rejects requests over the client's budget with 429 and an
// "error" body the page can display.
func RateLimit(l *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}
