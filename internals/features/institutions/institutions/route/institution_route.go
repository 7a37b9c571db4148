package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/features/institutions/institutions/controller"
	"ilmhub_backend/internals/helpers/audit"
)

// /api/public
func InstitutionPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewInstitutionController(db, nil)

	g := r.Group("/institutions")
	g.Get("/", ctrl.List)
	g.Get("/:slug", ctrl.Detail)
}

// /api/a
func InstitutionAdminRoutes(r fiber.Router, db *gorm.DB, al audit.Logger) {
	ctrl := controller.NewInstitutionController(db, al)

	g := r.Group("/institutions")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
