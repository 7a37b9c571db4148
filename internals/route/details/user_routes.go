package details

import (
	"github.com/gofiber/fiber/v2"

	userRoute "ilmhub_backend/internals/features/users/users/route"
)

func UserUserRoutes(api fiber.Router, d Deps) {
	userRoute.UserUserRoutes(api, d.DB)
}

func UserAdminRoutes(api fiber.Router, d Deps) {
	userRoute.UserAdminRoutes(api, d.DB, d.Roles, d.Audit)
}

// /api/webhooks (signed by svix, no session)
func WebhookRoutes(api fiber.Router, d Deps) {
	userRoute.ClerkWebhookRoutes(api, d.DB, d.Conf.ClerkWebhookSecret, d.Conf.IsAdminEmail)
}
