package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an unused client bucket is kept.
const idleLimiterTTL = 10 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter keeps one token bucket per key.
type KeyedLimiter struct {
	mu     sync.Mutex
	m      map[string]*bucket
	limit  rate.Limit
	burst  int
	now    func() time.Time
	lastGC time.Time
}

func NewKeyedLimiter(perSecond float64, burst int) *KeyedLimiter {
	return &KeyedLimiter{
		m:     make(map[string]*bucket),
		limit: rate.Limit(perSecond),
		burst: burst,
		now:   time.Now,
	}
}

// Allow returns true if one token can be consumed for key.
func (l *KeyedLimiter) Allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.m[key] = b
	}
	b.lastSeen = now

	if now.Sub(l.lastGC) > idleLimiterTTL {
		for k, v := range l.m {
			if now.Sub(v.lastSeen) > idleLimiterTTL {
				delete(l.m, k)
			}
		}
		l.lastGC = now
	}
	return b.limiter.AllowN(now, 1)
}

// RateLimit rejects clients exceeding perSecond requests (with burst) with 429.
// Clients are keyed by their real IP.
func RateLimit(perSecond float64, burst int) echo.MiddlewareFunc {
	l := NewKeyedLimiter(perSecond, burst)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"detail": http.StatusText(http.StatusTooManyRequests),
				})
			}
			return next(c)
		}
	}
}
