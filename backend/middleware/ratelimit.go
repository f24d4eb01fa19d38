package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ellavondegurechaff/stakeforge/backend/utils"
	"github.com/gofiber/fiber/v2"
	lru "github.com/hashicorp/golang-lru"
)

const maxTrackedClients = 4096

// RateLimiter is a sliding-window limiter per key. Keys live in an LRU so memory stays
// bounded without a cleanup goroutine.
type RateLimiter struct {
	mu     sync.Mutex
	recent *lru.Cache
	window time.Duration
	limit  int
	now    func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	recent, _ := lru.New(maxTrackedClients)
	return &RateLimiter{
		recent: recent,
		window: window,
		limit:  limit,
		now:    time.Now,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	var requests []time.Time
	if v, ok := rl.recent.Get(key); ok {
		requests = v.([]time.Time)
	}

	valid := requests[:0]
	for _, t := range requests {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	allowed := len(valid) < rl.limit
	if allowed {
		valid = append(valid, now)
	}
	rl.recent.Add(key, valid)
	return allowed
}

// RateLimit middleware limits requests per IP address
func RateLimit(limit int, window time.Duration) fiber.Handler {
	limiter := NewRateLimiter(limit, window)

	return func(c *fiber.Ctx) error {
		ip := utils.GetIPAddress(c)
		if !limiter.Allow(ip) {
			slog.Warn("Rate limit exceeded",
				slog.String("type", "api"),
				slog.String("ip", ip),
				slog.String("path", c.Path()),
				slog.Int("limit", limit),
				slog.Duration("window", window))

			return utils.SendError(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"Too many requests. Please try again later.", nil)
		}
		return c.Next()
	}
}

// APIRateLimit is the standard limit for public endpoints.
func APIRateLimit() fiber.Handler {
	return RateLimit(120, time.Minute)
}

// AdminRateLimit is the stricter limit for key-guarded endpoints.
func AdminRateLimit() fiber.Handler {
	return RateLimit(10, time.Minute)
}
