package route

import (
	"github.com/gofiber/fiber/v2"

	"ilmhub_backend/internals/features/commerce/payments/controller"
	"ilmhub_backend/internals/middlewares"
)

// /api/payments (called by the gateways and the buyer's browser, no auth)
func PaymentRoutes(r fiber.Router, ctrl *controller.PaymentController, storage fiber.Storage) {
	g := r.Group("/payments", middlewares.WebhookRateLimiter(storage))

	ssl := g.Group("/sslcommerz")
	ssl.Post("/success", ctrl.SSLSuccess)
	ssl.Post("/fail", ctrl.SSLFail)
	ssl.Post("/cancel", ctrl.SSLCancel)
	ssl.Post("/ipn", ctrl.SSLIPN)

	g.Post("/midtrans/notification", ctrl.MidtransNotification)
}
