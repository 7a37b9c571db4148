package middlewares

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/rollbar/rollbar-go"

	"ilmhub_backend/internals/configs"
	helper "ilmhub_backend/internals/helpers"
)

// InitRollbar enables 5xx reporting when ROLLBAR_TOKEN is set.
func InitRollbar(conf configs.AppConfig) bool {
	if conf.RollbarToken == "" {
		return false
	}
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerRoot("ilmhub_backend")
	log.Println("✅ rollbar enabled")
	return true
}

// ErrorHandler renders every returned error in the standard JSON shape.
func ErrorHandler(report bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		}

		if code >= 500 {
			log.Printf("[ERROR] %s %s reqid=%v: %v", c.Method(), c.OriginalURL(), c.Locals("reqid"), err)
			if report {
				rollbar.Error(err, map[string]interface{}{
					"method": c.Method(),
					"path":   c.Path(),
					"reqid":  c.Locals("reqid"),
				})
			}
		}
		return helper.JsonError(c, code, msg)
	}
}
