package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/features/library/categories/controller"
	"ilmhub_backend/internals/helpers/audit"
)

func CategoryPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCategoryController(db, nil)
	r.Get("/categories", ctrl.List)
}

func CategoryAdminRoutes(r fiber.Router, db *gorm.DB, al audit.Logger) {
	ctrl := controller.NewCategoryController(db, al)

	g := r.Group("/categories")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
