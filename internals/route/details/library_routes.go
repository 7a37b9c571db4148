package details

import (
	"github.com/gofiber/fiber/v2"

	bookRoute "ilmhub_backend/internals/features/library/books/route"
	categoryRoute "ilmhub_backend/internals/features/library/categories/route"
)

func LibraryPublicRoutes(api fiber.Router, d Deps) {
	categoryRoute.CategoryPublicRoutes(api, d.DB)
	bookRoute.BookPublicRoutes(api, d.DB)
}

func LibraryUserRoutes(api fiber.Router, d Deps) {
	bookRoute.BookUserRoutes(api, d.DB)
}

func LibraryAdminRoutes(api fiber.Router, d Deps) {
	categoryRoute.CategoryAdminRoutes(api, d.DB, d.Audit)
	bookRoute.BookAdminRoutes(api, d.DB, d.Audit, d.Uploader)
}
