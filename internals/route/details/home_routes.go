package details

import (
	"github.com/gofiber/fiber/v2"

	commentRoute "ilmhub_backend/internals/features/home/comments/route"
	masalahRoute "ilmhub_backend/internals/features/home/masalah/route"
	questionRoute "ilmhub_backend/internals/features/home/questions/route"
	subscriptionRoute "ilmhub_backend/internals/features/home/subscriptions/route"
	videoRoute "ilmhub_backend/internals/features/home/videos/route"
)

// e.g. /api/public/videos
func HomePublicRoutes(api fiber.Router, d Deps) {
	videoRoute.VideoPublicRoutes(api, d.DB)
	masalahRoute.MasalahPublicRoutes(api, d.DB)
	questionRoute.QuestionPublicRoutes(api, d.DB)
	commentRoute.CommentPublicRoutes(api, d.DB)
	subscriptionRoute.SubscriptionPublicRoutes(api, d.DB, d.Storage, d.Mailer, d.Conf)
}

// e.g. /api/u/questions
func HomeUserRoutes(api fiber.Router, d Deps) {
	videoRoute.VideoUserRoutes(api, d.DB)
	masalahRoute.MasalahUserRoutes(api, d.DB)
	questionRoute.QuestionUserRoutes(api, d.DB, d.Storage)
	commentRoute.CommentUserRoutes(api, d.DB, d.Storage)
}

// e.g. /api/a/videos
func HomeAdminRoutes(api fiber.Router, d Deps) {
	videoRoute.VideoAdminRoutes(api, d.DB, d.Audit)
	masalahRoute.MasalahAdminRoutes(api, d.DB, d.Audit)
	questionRoute.QuestionAdminRoutes(api, d.DB, d.Audit, d.Mailer, d.Conf)
	subscriptionRoute.SubscriptionAdminRoutes(api, d.DB)
}
