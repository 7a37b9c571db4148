package route

import (
	"github.com/gofiber/fiber/v2"

	"ilmhub_backend/internals/features/uploads/images/controller"
	helperOSS "ilmhub_backend/internals/helpers/oss"
)

// /api/a
func UploadAdminRoutes(r fiber.Router, up helperOSS.ImageUploader) {
	ctrl := controller.NewUploadController(up)
	r.Post("/uploads/image", ctrl.Image)
}
