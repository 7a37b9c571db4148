// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"crypto/subtle"
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "ilmhub_backend/internals/helpers"
)

// AuthMiddleware requires a valid clerk session token. v may be nil when
// CLERK_JWT_KEY is not configured; every request is then rejected.
func AuthMiddleware(v *Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v == nil {
			log.Println("[ERROR] CLERK_JWT_KEY not configured")
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - auth not configured")
		}
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		claims, err := v.Verify(tokenString)
		if err != nil {
			log.Println("[WARN] token rejected:", err)
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - Invalid or expired token")
		}
		storeClaimsToLocals(c, claims)
		return c.Next()
	}
}

// OptionalAuth stores the user when a valid token is present and never rejects.
func OptionalAuth(v *Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v == nil {
			return c.Next()
		}
		tokenString, err := extractBearerToken(c)
		if err != nil {
			return c.Next()
		}
		if claims, err := v.Verify(tokenString); err == nil {
			storeClaimsToLocals(c, claims)
		}
		return c.Next()
	}
}

func storeClaimsToLocals(c *fiber.Ctx, claims *SessionClaims) {
	c.Locals(helper.LocalUserID, claims.Subject)
	c.Locals(helper.LocalIsAdmin, claims.IsAdmin())
	if claims.Email != "" {
		c.Locals(helper.LocalEmail, strings.ToLower(claims.Email))
	}
}

// RequireAdmin passes when the token says isAdmin or the mirrored users row does.
// Must run after AuthMiddleware.
func RequireAdmin(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := helper.GetUserID(c)
		if userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing user")
		}
		if helper.IsAdmin(c) {
			return c.Next()
		}

		var row struct{ IsAdmin bool }
		err := db.WithContext(c.UserContext()).
			Table("users").
			Select("is_admin").
			Where("id = ? AND deleted_at IS NULL", userID).
			Take(&row).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Println("[ERROR] admin lookup:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}
		if !row.IsAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Forbidden - admin only")
		}
		c.Locals(helper.LocalIsAdmin, true)
		return c.Next()
	}
}

// CronSecret gates the cron endpoints with Authorization: Bearer <CRON_SECRET>.
// An empty secret disables them.
func CronSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return fiber.NewError(fiber.StatusServiceUnavailable, "cron is not configured")
		}
		tok, err := extractBearerToken(c)
		if err != nil || subtle.ConstantTimeCompare([]byte(tok), []byte(secret)) != 1 {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}
		return c.Next()
	}
}
