package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/features/library/books/controller"
	reviewController "ilmhub_backend/internals/features/library/reviews/controller"
	"ilmhub_backend/internals/helpers/audit"
	helperOSS "ilmhub_backend/internals/helpers/oss"
)

// /api/public
func BookPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewBookController(db, nil, nil)
	reviews := reviewController.NewReviewController(db)

	books := r.Group("/books")
	books.Get("/", ctrl.ListPublic)
	books.Get("/:id/reviews", reviews.ListByBook)
	books.Get("/:key", ctrl.Detail)
}

// /api/u
func BookUserRoutes(r fiber.Router, db *gorm.DB) {
	reviews := reviewController.NewReviewController(db)

	books := r.Group("/books")
	books.Put("/:id/review", reviews.Upsert)
	books.Delete("/:id/review", reviews.DeleteOwn)
}

// /api/a
func BookAdminRoutes(r fiber.Router, db *gorm.DB, al audit.Logger, up helperOSS.ImageUploader) {
	ctrl := controller.NewBookController(db, al, up)

	books := r.Group("/books")
	books.Get("/", ctrl.ListAdmin)
	books.Post("/", ctrl.Create)
	books.Patch("/:id", ctrl.Update)
	books.Delete("/:id", ctrl.Delete)
	books.Post("/:id/cover", ctrl.UploadCover)
}
