package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys written by the auth middleware.
const (
	LocalUserID  = "user_id"
	LocalIsAdmin = "is_admin"
	LocalEmail   = "user_email"
)

// GetUserID returns the clerk user id set by the auth middleware, or "".
func GetUserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocalUserID).(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// RequireUserID is GetUserID that fails with 401 when nobody is signed in.
func RequireUserID(c *fiber.Ctx) (string, error) {
	id := GetUserID(c)
	if id == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - missing user")
	}
	return id, nil
}

func IsAdmin(c *fiber.Ctx) bool {
	v, _ := c.Locals(LocalIsAdmin).(bool)
	return v
}

// ParseUUIDParam reads :name as a uuid. A malformed id cannot match any row, so it is a 404.
func ParseUUIDParam(c *fiber.Ctx, name string, what string) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Params(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusNotFound, what+" not found")
	}
	return id, nil
}
