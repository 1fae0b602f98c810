package limiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex

	rps   rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time
}

func newRateLimiter(rps int, burst int, ttl time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *rateLimiter) getVisitor(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.rps, r.burst)}
		r.visitors[ip] = v
	}
	v.lastSeen = r.now()

	return v.limiter
}

func (r *rateLimiter) cleanupVisitors() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for ip, v := range r.visitors {
		if r.now().Sub(v.lastSeen) > r.ttl {
			delete(r.visitors, ip)
		}
	}
}

func (r *rateLimiter) runCleanup() {
	for {
		time.Sleep(r.ttl)
		r.cleanupVisitors()
	}
}

// Limit throttles requests per client IP using a token bucket of rps/burst.
// Buckets idle for longer than ttl are dropped.
func Limit(rps int, burst int, ttl time.Duration) gin.HandlerFunc {
	l := newRateLimiter(rps, burst, ttl)
	go l.runCleanup()

	return l.handle
}

func (r *rateLimiter) handle(c *gin.Context) {
	if !r.getVisitor(c.ClientIP()).Allow() {
		c.AbortWithStatus(http.StatusTooManyRequests)
		return
	}

	c.Next()
}
