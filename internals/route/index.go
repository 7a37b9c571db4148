package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"ilmhub_backend/internals/middlewares"
	"ilmhub_backend/internals/middlewares/auth"
	routeDetails "ilmhub_backend/internals/route/details"
)

type Deps = routeDetails.Deps

var startTime time.Time

func SetupRoutes(app *fiber.App, v *auth.Verifier, d Deps) {
	startTime = time.Now()

	BaseRoutes(app, d.DB, d.Conf)

	api := app.Group("/api", middlewares.GlobalRateLimiter(d.Storage))

	// ===================== UNAUTHENTICATED CALLERS =====================
	log.Println("[INFO] Mounting webhook, payment and cron routes...")
	routeDetails.WebhookRoutes(api.Group("/webhooks"), d)
	routeDetails.PaymentCallbackRoutes(api, d)
	routeDetails.CronRoutes(api.Group("/cron"), d)

	// ===================== GROUPS =====================
	// PUBLIC → token optional
	public := api.Group("/public", auth.OptionalAuth(v))
	// USER → token required
	user := api.Group("/u", auth.AuthMiddleware(v))
	// ADMIN → token + admin flag (claim or users row)
	admin := api.Group("/a", auth.AuthMiddleware(v), auth.RequireAdmin(d.DB))

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Home routes...")
	routeDetails.HomePublicRoutes(public, d)
	routeDetails.HomeUserRoutes(user, d)
	routeDetails.HomeAdminRoutes(admin, d)

	log.Println("[INFO] Mounting Library routes...")
	routeDetails.LibraryPublicRoutes(public, d)
	routeDetails.LibraryUserRoutes(user, d)
	routeDetails.LibraryAdminRoutes(admin, d)

	log.Println("[INFO] Mounting Programme routes...")
	routeDetails.ProgrammePublicRoutes(public, d)
	routeDetails.ProgrammeUserRoutes(user, d)
	routeDetails.ProgrammeAdminRoutes(admin, d)

	log.Println("[INFO] Mounting Commerce routes...")
	routeDetails.CommercePublicRoutes(public, d)
	routeDetails.CommerceUserRoutes(user, d)
	routeDetails.CommerceAdminRoutes(admin, d)

	log.Println("[INFO] Mounting User routes...")
	routeDetails.UserUserRoutes(user, d)
	routeDetails.UserAdminRoutes(admin, d)
}
