package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/postboard/utils"
)

const limiterIdleTTL = 5 * time.Minute

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// ipLimiters hands out one token bucket per client IP and forgets idle ones.
type ipLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newIPLimiters(perMinute int) *ipLimiters {
	perMinute = max(perMinute, 1)
	return &ipLimiters{
		clients: map[string]*clientLimiter{},
		limit:   rate.Every(time.Minute / time.Duration(perMinute)),
		burst:   max(perMinute/2, 1),
		now:     time.Now,
	}
}

func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, c := range l.clients {
		if now.After(c.expires) {
			delete(l.clients, key)
		}
	}

	c, ok := l.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.expires = now.Add(limiterIdleTTL)
	return c.limiter.AllowN(now, 1)
}

// RateLimit applies a per-IP token bucket of perMinute requests, bursting to half of it.
func RateLimit(perMinute int) gin.HandlerFunc {
	limiters := newIPLimiters(perMinute)
	return func(ctx *gin.Context) {
		if !limiters.allow(ctx.ClientIP()) {
			utils.Error(ctx, http.StatusTooManyRequests, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
