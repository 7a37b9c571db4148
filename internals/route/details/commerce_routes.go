package details

import (
	"github.com/gofiber/fiber/v2"

	orderRoute "ilmhub_backend/internals/features/commerce/orders/route"
	paymentRoute "ilmhub_backend/internals/features/commerce/payments/route"
	dashboardRoute "ilmhub_backend/internals/features/dashboard/stats/route"
	uploadRoute "ilmhub_backend/internals/features/uploads/images/route"
)

func CommercePublicRoutes(api fiber.Router, d Deps) {
	orderRoute.OrderPublicRoutes(api, d.Orders)
}

func CommerceUserRoutes(api fiber.Router, d Deps) {
	orderRoute.OrderUserRoutes(api, d.Orders, d.Storage)
}

func CommerceAdminRoutes(api fiber.Router, d Deps) {
	orderRoute.OrderAdminRoutes(api, d.Orders)
	dashboardRoute.DashboardAdminRoutes(api, d.DB, d.Cache)
	uploadRoute.UploadAdminRoutes(api, d.Uploader)
}

// /api (gateway callbacks mount /payments themselves)
func PaymentCallbackRoutes(api fiber.Router, d Deps) {
	paymentRoute.PaymentRoutes(api, d.Payments, d.Storage)
}
