package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"ilmhub_backend/internals/constants"
	helper "ilmhub_backend/internals/helpers"
	helperOSS "ilmhub_backend/internals/helpers/oss"
)

type UploadController struct {
	Uploader helperOSS.ImageUploader
}

func NewUploadController(up helperOSS.ImageUploader) *UploadController {
	return &UploadController{Uploader: up}
}

// POST /api/a/uploads/image?folder=events (multipart "file"), stored as webp
func (uc *UploadController) Image(c *fiber.Ctx) error {
	if uc.Uploader == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Image storage not configured")
	}
	folder := strings.ToLower(strings.TrimSpace(c.Query("folder")))
	if !constants.UploadFolders[folder] {
		return helper.JsonError(c, fiber.StatusBadRequest, "Unknown upload folder")
	}
	fh, err := helperOSS.GetImageFile(c)
	if err != nil {
		return err
	}
	if fh == nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	url, err := uc.Uploader.UploadAsWebP(c.UserContext(), fh, folder)
	if err != nil {
		log.Printf("[ERROR] upload %s: %v", folder, err)
		return err
	}
	return helper.JsonCreated(c, "Image uploaded", fiber.Map{"url": url, "folder": folder})
}
