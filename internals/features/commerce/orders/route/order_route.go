package route

import (
	"github.com/gofiber/fiber/v2"

	"ilmhub_backend/internals/features/commerce/orders/controller"
	"ilmhub_backend/internals/middlewares"
)

// /api/public
func OrderPublicRoutes(r fiber.Router, ctrl *controller.OrderController) {
	r.Get("/orders/track/:tran_id", ctrl.Track)
}

// /api/u
func OrderUserRoutes(r fiber.Router, ctrl *controller.OrderController, storage fiber.Storage) {
	g := r.Group("/orders")
	g.Post("/checkout", middlewares.CheckoutRateLimiter(storage), ctrl.Checkout)
	g.Get("/", ctrl.ListMine)
	g.Get("/:id", ctrl.DetailMine)
}

// /api/a
func OrderAdminRoutes(r fiber.Router, ctrl *controller.OrderController) {
	g := r.Group("/orders")
	g.Get("/", ctrl.ListAdmin)
	g.Get("/:id", ctrl.DetailAdmin)
	g.Patch("/:id/status", ctrl.UpdateStatus)
}
