// middlewares/cors.go

package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"ilmhub_backend/internals/configs"
)

// CorsMiddleware allows the frontend (APP_BASE_URL) plus CORS_ORIGINS.
func CorsMiddleware(conf configs.AppConfig) fiber.Handler {
	origins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}
	if conf.AppBaseURL != "" {
		origins = append(origins, conf.AppBaseURL)
	}
	origins = append(origins, configs.SplitCSV(configs.GetEnv("CORS_ORIGINS"))...)

	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
	})
}
