package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/halisaha_backend/config"
)

const (
	defaultLimitMax        = 60
	defaultLimitExpiration = 30 * time.Second
)

// NewLimiter is a sliding-window limiter per client IP. With rdb set the
// counters live in Redis and are shared across instances; otherwise they
// are kept in process memory.
func NewLimiter(cfg config.RateLimit, rdb *redis.Client) fiber.Handler {
	limit := cfg.Max
	if limit <= 0 {
		limit = defaultLimitMax
	}
	exp := time.Duration(cfg.ExpirationSeconds) * time.Second
	if exp <= 0 {
		exp = defaultLimitExpiration
	}

	lc := limiter.Config{
		Max:               limit,
		Expiration:        exp,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		},
	}
	if rdb != nil {
		lc.Storage = fiberredis.NewFromConnection(rdb)
	}
	return limiter.New(lc)
}
