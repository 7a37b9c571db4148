package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/features/users/users/controller"
	"ilmhub_backend/internals/features/users/users/service"
	"ilmhub_backend/internals/helpers/audit"
)

// /api/u
func UserUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewUserController(db, nil, nil)
	r.Get("/me", ctrl.Me)
}

// /api/a
func UserAdminRoutes(r fiber.Router, db *gorm.DB, roles service.RoleUpdater, al audit.Logger) {
	ctrl := controller.NewUserController(db, roles, al)

	users := r.Group("/users")
	users.Get("/", ctrl.ListUsers)
	users.Patch("/:id/role", ctrl.UpdateRole)
}

// /api/webhooks
func ClerkWebhookRoutes(r fiber.Router, db *gorm.DB, secret string, isAdminEmail func(string) bool) {
	ctrl := controller.NewClerkWebhookController(db, secret, isAdminEmail)
	r.Post("/clerk", ctrl.Handle)
}
