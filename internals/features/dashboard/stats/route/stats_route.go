package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/features/dashboard/stats/controller"
	"ilmhub_backend/internals/features/dashboard/stats/service"
	"ilmhub_backend/internals/helpers/cache"
)

// /api/a
func DashboardAdminRoutes(r fiber.Router, db *gorm.DB, c cache.Cache) {
	ctrl := controller.NewStatsController(service.NewStatsService(db), c)
	r.Get("/dashboard/stats", ctrl.Get)
}
