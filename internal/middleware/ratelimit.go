package middleware

import (
	"sync"
	"time"

	"hrflow_backend/internal/logger"
	"hrflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// IPRateLimiter - token bucket на каждый IP. Неактивные IP вытесняются из кеша.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters *gocache.Cache
	limit    rate.Limit
	burst    int
}

// NewIPRateLimiter - perMinute запросов в минуту с запасом burst
func NewIPRateLimiter(perMinute, burst int) *IPRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters: gocache.New(10*time.Minute, 20*time.Minute),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
	}
}

// Allow - true, если у ip еще есть токен
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.limiters.Get(ip); ok {
		limiter := cached.(*rate.Limiter)
		// продлеваем жизнь записи, пока IP активен
		l.limiters.SetDefault(ip, limiter)
		return limiter.Allow()
	}

	limiter := rate.NewLimiter(l.limit, l.burst)
	l.limiters.SetDefault(ip, limiter)
	return limiter.Allow()
}

// RateLimitMiddleware - 429 в стандартном конверте ошибки
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			logger.CtxWarn(c.Request.Context(), "Rate limit exceeded", "client_ip", ip, "path", c.Request.URL.Path)
			c.Header("Retry-After", "60")
			apperrors.AbortWithError(c, apperrors.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
