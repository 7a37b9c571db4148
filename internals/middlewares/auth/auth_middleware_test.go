package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "ilmhub_backend/internals/helpers"
	"ilmhub_backend/internals/middlewares/auth"
	"ilmhub_backend/internals/testkit"
)

type userRow struct {
	ID        string `gorm:"primaryKey"`
	IsAdmin   bool
	DeletedAt *time.Time
}

func (userRow) TableName() string { return "users" }

func newApp(t *testing.T, v *auth.Verifier, extra ...fiber.Handler) *fiber.App {
	app := testkit.NewApp()
	handlers := append([]fiber.Handler{auth.AuthMiddleware(v)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": helper.GetUserID(c), "is_admin": helper.IsAdmin(c)})
	})
	app.Get("/me", handlers...)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	signer := testkit.NewSigner(t)
	v, err := auth.NewVerifier(signer.PEMPub)
	require.NoError(t, err)
	app := newApp(t, v)

	t.Run("valid token", func(t *testing.T) {
		res := testkit.Request(t, app, http.MethodGet, "/me", nil,
			"Authorization", "Bearer "+signer.Token(t, "user_abc", time.Hour, nil))
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "user_abc", testkit.Decode(t, res)["user_id"])
	})

	t.Run("session cookie", func(t *testing.T) {
		res := testkit.Request(t, app, http.MethodGet, "/me", nil,
			"Cookie", "__session="+signer.Token(t, "user_cookie", time.Hour, nil))
		require.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		res := testkit.Request(t, app, http.MethodGet, "/me", nil)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("expired token", func(t *testing.T) {
		res := testkit.Request(t, app, http.MethodGet, "/me", nil,
			"Authorization", "Bearer "+signer.Token(t, "user_abc", -time.Hour, nil))
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("token from another key", func(t *testing.T) {
		other := testkit.NewSigner(t)
		res := testkit.Request(t, app, http.MethodGet, "/me", nil,
			"Authorization", "Bearer "+other.Token(t, "user_abc", time.Hour, nil))
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})

	t.Run("nil verifier rejects", func(t *testing.T) {
		res := testkit.Request(t, newApp(t, nil), http.MethodGet, "/me", nil,
			"Authorization", "Bearer "+signer.Token(t, "user_abc", time.Hour, nil))
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	})
}

func TestRequireAdmin(t *testing.T) {
	signer := testkit.NewSigner(t)
	v, err := auth.NewVerifier(signer.PEMPub)
	require.NoError(t, err)

	db := testkit.NewDB(t, &userRow{})
	require.NoError(t, db.Create(&userRow{ID: "user_admin", IsAdmin: true}).Error)
	require.NoError(t, db.Create(&userRow{ID: "user_plain"}).Error)

	app := newApp(t, v, auth.RequireAdmin(db))

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"admin claim", signer.Token(t, "user_x", time.Hour, map[string]any{"isAdmin": true}), http.StatusOK},
		{"admin mirror row", signer.Token(t, "user_admin", time.Hour, nil), http.StatusOK},
		{"plain user", signer.Token(t, "user_plain", time.Hour, nil), http.StatusForbidden},
		{"unknown user", signer.Token(t, "user_ghost", time.Hour, nil), http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := testkit.Request(t, app, http.MethodGet, "/me", nil, "Authorization", "Bearer "+tc.token)
			assert.Equal(t, tc.status, res.StatusCode)
		})
	}
}

func TestCronSecret(t *testing.T) {
	app := testkit.NewApp()
	app.Get("/cron", auth.CronSecret("s3cret"), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/off", auth.CronSecret(""), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	assert.Equal(t, http.StatusOK, testkit.Request(t, app, http.MethodGet, "/cron", nil, "Authorization", "Bearer s3cret").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, testkit.Request(t, app, http.MethodGet, "/cron", nil, "Authorization", "Bearer nope").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, testkit.Request(t, app, http.MethodGet, "/cron", nil).StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, testkit.Request(t, app, http.MethodGet, "/off", nil, "Authorization", "Bearer ").StatusCode)
}

func TestNewVerifier_BadKey(t *testing.T) {
	_, err := auth.NewVerifier("")
	assert.Error(t, err)
	_, err = auth.NewVerifier("-----BEGIN PUBLIC KEY-----\nnope\n-----END PUBLIC KEY-----")
	assert.Error(t, err)
}
