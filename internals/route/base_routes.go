package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/configs"
)

// BaseRoutes mounts the unauthenticated "/" banner and the uptime check.
func BaseRoutes(app *fiber.App, db *gorm.DB, conf configs.AppConfig) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"name": conf.AppName + " API", "env": conf.Env})
	})

	// 503 when postgres does not answer, so the platform restarts us
	app.Get("/health", func(c *fiber.Ctx) error {
		status, dbState, code := "OK", "Connected", fiber.StatusOK
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			status, dbState, code = "DOWN", "Database connection error", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":         status,
			"database":       dbState,
			"server_time":    time.Now().In(conf.Location()).Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
			"environment":    conf.Env,
		})
	})
}
