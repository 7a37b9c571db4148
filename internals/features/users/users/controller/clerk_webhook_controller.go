package controller

import (
	"log"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	svix "github.com/svix/svix-webhooks/go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ilmhub_backend/internals/features/users/users/dto"
	"ilmhub_backend/internals/features/users/users/model"
	helper "ilmhub_backend/internals/helpers"
)

type ClerkWebhookController struct {
	DB   *gorm.DB
	Hook *svix.Webhook
	// IsAdminEmail grants admin to addresses listed in ADMIN_EMAILS.
	IsAdminEmail func(email string) bool
}

func NewClerkWebhookController(db *gorm.DB, secret string, isAdminEmail func(string) bool) *ClerkWebhookController {
	ctrl := &ClerkWebhookController{DB: db, IsAdminEmail: isAdminEmail}
	if secret == "" {
		log.Println("[WARN] CLERK_WEBHOOK_SECRET not set, clerk webhooks will be rejected")
		return ctrl
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		log.Printf("[ERROR] clerk webhook secret invalid: %v", err)
		return ctrl
	}
	ctrl.Hook = wh
	return ctrl
}

// POST /api/webhooks/clerk
func (wc *ClerkWebhookController) Handle(c *fiber.Ctx) error {
	if wc.Hook == nil {
		return helper.JsonError(c, fiber.StatusServiceUnavailable, "Webhook not configured")
	}

	payload := c.Body()
	headers := http.Header{}
	headers.Set("svix-id", c.Get("svix-id"))
	headers.Set("svix-timestamp", c.Get("svix-timestamp"))
	headers.Set("svix-signature", c.Get("svix-signature"))
	if err := wc.Hook.Verify(payload, headers); err != nil {
		log.Printf("[WARN] clerk webhook signature: %v", err)
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid webhook signature")
	}

	var evt dto.ClerkEvent
	if err := sonic.Unmarshal(payload, &evt); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid webhook payload")
	}
	var data dto.ClerkUser
	if err := sonic.Unmarshal(evt.Data, &data); err != nil || data.ID == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid webhook payload")
	}

	switch evt.Type {
	case "user.created", "user.updated":
		return wc.upsert(c, data)
	case "user.deleted":
		return wc.softDelete(c, data.ID)
	default:
		log.Printf("[INFO] clerk webhook %s ignored", evt.Type)
		return helper.JsonOK(c, "ignored", fiber.Map{"type": evt.Type})
	}
}

func (wc *ClerkWebhookController) upsert(c *fiber.Ctx, data dto.ClerkUser) error {
	isAdmin := data.MetadataAdmin()
	if !isAdmin && wc.IsAdminEmail != nil {
		isAdmin = wc.IsAdminEmail(data.PrimaryEmail())
	}
	user := data.ToModel(isAdmin)

	// a re-created clerk user revives its soft-deleted mirror
	err := wc.DB.WithContext(c.UserContext()).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"image_url":  user.ImageURL,
			"is_admin":   user.IsAdmin,
			"updated_at": time.Now(),
			"deleted_at": nil,
		}),
	}).Create(&user).Error
	if err != nil {
		log.Printf("[ERROR] clerk upsert %s: %v", data.ID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to sync user")
	}
	log.Printf("[INFO] clerk user %s synced (admin=%v)", user.ID, user.IsAdmin)
	return helper.JsonOK(c, "User synced", dto.FromModel(&user))
}

func (wc *ClerkWebhookController) softDelete(c *fiber.Ctx, id string) error {
	res := wc.DB.WithContext(c.UserContext()).Where("id = ?", id).Delete(&model.UserModel{})
	if res.Error != nil {
		log.Printf("[ERROR] clerk delete %s: %v", id, res.Error)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete user")
	}
	return helper.JsonDeleted(c, "User deleted", fiber.Map{"id": id, "affected": res.RowsAffected})
}
