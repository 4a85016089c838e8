package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipRateLimiter keeps one token bucket per client IP. Entries unused for a
// few minutes are dropped so the map does not grow without bound.
type ipRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type ipClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	l := &ipRateLimiter{r: r, b: b}
	go l.cleanupLoop()
	return l
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	if v, ok := l.ips.Load(ip); ok {
		c := v.(*ipClient)
		c.lastSeen = time.Now()
		return c.limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double check
	if v, ok := l.ips.Load(ip); ok {
		c := v.(*ipClient)
		c.lastSeen = time.Now()
		return c.limiter
	}

	limiter := rate.NewLimiter(l.r, l.b)
	l.ips.Store(ip, &ipClient{limiter: limiter, lastSeen: time.Now()})
	return limiter
}

func (l *ipRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		l.ips.Range(func(key, value interface{}) bool {
			c := value.(*ipClient)
			if time.Since(c.lastSeen) > 3*time.Minute {
				l.ips.Delete(key)
			}
			return true
		})
	}
}

// LoginRateLimit throttles login attempts per client IP.
func LoginRateLimit(perMinute float64, burst int) gin.HandlerFunc {
	limiter := newIPRateLimiter(rate.Limit(perMinute/60.0), burst)

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			respondError(c, http.StatusTooManyRequests, "too many login attempts, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
