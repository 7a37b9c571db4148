package middlewares_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/middlewares"
	"ilmhub_backend/internals/testkit"
)

func ok(c *fiber.Ctx) error { return helper.JsonOK(c, "ok", nil) }

// asHeaderUser signs the request in as the X-Test-User header, if any.
func asHeaderUser(c *fiber.Ctx) error {
	if id := c.Get("X-Test-User"); id != "" {
		c.Locals(helper.LocalUserID, id)
	}
	return c.Next()
}

// hit sends n requests and returns how many were let through.
func hit(t *testing.T, app *fiber.App, n int, method, path string, headers ...string) int {
	t.Helper()
	passed := 0
	for i := 0; i < n; i++ {
		res := testkit.Request(t, app, method, path, nil, headers...)
		switch res.StatusCode {
		case fiber.StatusOK:
			passed++
		case fiber.StatusTooManyRequests:
		default:
			require.Failf(t, "unexpected status", "%s %s -> %d", method, path, res.StatusCode)
		}
	}
	return passed
}

func TestGlobalRateLimiter(t *testing.T) {
	app := testkit.NewApp()
	app.Use(middlewares.GlobalRateLimiter(nil))
	app.Get("/api/public/books", ok)
	app.Get("/health", ok)
	app.Post("/api/payments/sslcommerz/ipn", ok)

	assert.Equal(t, 100, hit(t, app, 101, http.MethodGet, "/api/public/books"))

	res := testkit.Request(t, app, http.MethodGet, "/api/public/books", nil)
	require.Equal(t, fiber.StatusTooManyRequests, res.StatusCode)
	assert.Equal(t, false, testkit.Decode(t, res)["success"])

	// exempt paths ignore the exhausted bucket
	assert.Equal(t, 3, hit(t, app, 3, http.MethodGet, "/health"))
	assert.Equal(t, 3, hit(t, app, 3, http.MethodPost, "/api/payments/sslcommerz/ipn"))
}

func TestCheckoutRateLimiter_PerUser(t *testing.T) {
	app := testkit.NewApp()
	app.Post("/api/u/orders/checkout", asHeaderUser, middlewares.CheckoutRateLimiter(nil), ok)

	assert.Equal(t, 10, hit(t, app, 11, http.MethodPost, "/api/u/orders/checkout", "X-Test-User", "user_a"))
	assert.Equal(t, 10, hit(t, app, 11, http.MethodPost, "/api/u/orders/checkout", "X-Test-User", "user_b"),
		"another user from the same IP has their own bucket")
}

func TestContentRateLimiter_SharesBucketAcrossParams(t *testing.T) {
	app := testkit.NewApp()
	app.Post("/api/u/videos/:id/comments", asHeaderUser, middlewares.ContentRateLimiter(nil), ok)

	assert.Equal(t, 20, hit(t, app, 20, http.MethodPost, "/api/u/videos/1/comments", "X-Test-User", "user_a"))
	assert.Equal(t, 0, hit(t, app, 1, http.MethodPost, "/api/u/videos/2/comments", "X-Test-User", "user_a"))
	assert.Equal(t, 1, hit(t, app, 1, http.MethodPost, "/api/u/videos/2/comments", "X-Test-User", "user_b"))
}

func TestWebhookRateLimiter_PerCallbackPath(t *testing.T) {
	app := testkit.NewApp()
	g := app.Group("/api/payments", middlewares.WebhookRateLimiter(nil))
	g.Post("/sslcommerz/ipn", ok)
	g.Post("/sslcommerz/success", ok)

	assert.Equal(t, 60, hit(t, app, 61, http.MethodPost, "/api/payments/sslcommerz/ipn"))
	assert.Equal(t, 1, hit(t, app, 1, http.MethodPost, "/api/payments/sslcommerz/success"),
		"an IPN burst leaves the browser return alone")
}
