package middlewares

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "ilmhub_backend/internals/helpers"
)

// storage is nil for the in-memory default; main passes the redis adapter when REDIS_ADDR is set.
func newLimiter(storage fiber.Storage, max int, exp time.Duration, message string, key func(*fiber.Ctx) string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   exp,
		Storage:      storage,
		KeyGenerator: key,
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// userRouteKey buckets by signed-in user (IP for guests) and route pattern,
// so /videos/:id/comments is one bucket however many videos are hit.
func userRouteKey(c *fiber.Ctx) string {
	if id := helper.GetUserID(c); id != "" {
		return "u:" + id + ":" + c.Route().Path
	}
	return c.IP() + ":" + c.Route().Path
}

// ipPathKey buckets by IP and concrete path. Group middleware only sees the
// group prefix in c.Route(), so it must key on c.Path().
func ipPathKey(c *fiber.Ctx) string {
	return c.IP() + ":" + c.Path()
}

// Global limiter: every endpoint, per IP.
func GlobalRateLimiter(storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Storage:    storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		Next: func(c *fiber.Ctx) bool {
			// gateway callbacks and health checks are not user traffic
			p := c.Path()
			return p == "/health" || strings.HasPrefix(p, "/api/payments/")
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, "Too many requests. Please try again later.")
		},
	})
}

// CheckoutRateLimiter: 10 checkouts per minute per user.
func CheckoutRateLimiter(storage fiber.Storage) fiber.Handler {
	return newLimiter(storage, 10, time.Minute, "Too many checkout attempts. Please wait a minute.", userRouteKey)
}

// ContentRateLimiter guards question/comment creation: 20 per minute per user.
func ContentRateLimiter(storage fiber.Storage) fiber.Handler {
	return newLimiter(storage, 20, time.Minute, "You are posting too fast. Please slow down.", userRouteKey)
}

// WebhookRateLimiter guards the gateway callbacks: 60 per minute per IP for
// each callback path, so an IPN burst does not starve the browser returns.
func WebhookRateLimiter(storage fiber.Storage) fiber.Handler {
	return newLimiter(storage, 60, time.Minute, "Too many webhook calls.", ipPathKey)
}
