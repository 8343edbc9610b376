package middleware

import (
	"sync"
	"time"

	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// idleLimiterTTL is how long an unused per-IP limiter is kept.
const idleLimiterTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	if perMinute <= 0 {
		perMinute = 100
	}
	return &rateLimiterStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > idleLimiterTTL {
		for k, v := range s.visitors {
			if now.Sub(v.lastSeen) > idleLimiterTTL {
				delete(s.visitors, k)
			}
		}
		s.lastSweep = now
	}

	v, exists := s.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// RateLimitMiddleware limits requests per client IP to perMinute, allowing a
// burst of the same size.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	store := newRateLimiterStore(perMinute)
	return func(c *gin.Context) {
		ip := getClientIP(c)
		if !store.getLimiter(ip, time.Now()).Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.FullPath()))
			utils.RespondError(c, utils.NewRateLimitError("Too many requests from this IP, please try again later."))
			return
		}
		c.Next()
	}
}
