package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/configs"
	"ilmhub_backend/internals/features/home/subscriptions/controller"
	"ilmhub_backend/internals/helpers/mailer"
	"ilmhub_backend/internals/middlewares"
)

// /api/public
func SubscriptionPublicRoutes(r fiber.Router, db *gorm.DB, storage fiber.Storage, m mailer.Mailer, conf configs.AppConfig) {
	ctrl := controller.NewSubscriptionController(db, m, conf.AppName, conf.APIBaseURL)

	g := r.Group("/subscriptions")
	g.Post("/", middlewares.ContentRateLimiter(storage), ctrl.Subscribe)
	g.Get("/unsubscribe/:token", ctrl.Unsubscribe)
	g.Post("/unsubscribe/:token", ctrl.Unsubscribe)
}

// /api/a
func SubscriptionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSubscriptionController(db, nil, "", "")
	r.Get("/subscriptions", ctrl.List)
}
