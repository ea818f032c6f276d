package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/ekantin/utils"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter membatasi request per IP memakai token bucket.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	message error
	now     func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

// NewRateLimiter mengizinkan requests permintaan per interval untuk setiap IP.
func NewRateLimiter(requests int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Every(interval / time.Duration(requests)),
		burst:    requests,
		ttl:      3 * interval,
		message:  errors.New("Terlalu banyak permintaan, silakan coba lagi nanti"),
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// NewStrictRateLimiter dipakai untuk endpoint login: 5 percobaan per menit.
func NewStrictRateLimiter() *RateLimiter {
	rl := NewRateLimiter(5, time.Minute)
	rl.message = errors.New("Terlalu banyak percobaan, silakan tunggu beberapa saat")
	return rl
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rl.ttl {
			delete(rl.visitors, key)
		}
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			utils.AbortWithError(c, http.StatusTooManyRequests, rl.message)
			return
		}
		c.Next()
	}
}
