package middleware

import (
	"sync"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"merchant-portal/internal/config"
)

type rateLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
	counter  atomic.Int64
}

func newRateLimiterStore(rps, burst int) *rateLimiterStore {
	return &rateLimiterStore{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(s.rps, s.burst)
		s.limiters[ip] = limiter
	}

	// Every 1000 lookups, evict idle clients so the map stays bounded.
	if s.counter.Add(1)%1000 == 0 {
		s.sweep()
	}

	return limiter
}

// sweep removes IPs whose token bucket is full again, i.e. idle clients.
func (s *rateLimiterStore) sweep() {
	for ip, limiter := range s.limiters {
		if limiter.Tokens() >= float64(s.burst) {
			delete(s.limiters, ip)
		}
	}
}

// RateLimit enforces a per-IP token bucket on public endpoints such as the
// contact form. rps <= 0 disables it.
func RateLimit(cfg config.RateLimitConfig) fiber.Handler {
	if cfg.RPS <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.RPS
	}
	store := newRateLimiterStore(cfg.RPS, burst)

	return func(c *fiber.Ctx) error {
		if !store.getLimiter(c.IP()).Allow() {
			c.Set("Retry-After", "1")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Muitas requisições, tente novamente em instantes",
			})
		}
		return c.Next()
	}
}
