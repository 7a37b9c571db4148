package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/videos/controller"
	"ilmhub_backend/internals/features/home/videos/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	"ilmhub_backend/internals/helpers/audit"
)

// /api/public
func VideoPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewVideoController(db, nil)
	reactions := reactionController.NewReactionController(db)

	g := r.Group("/videos")
	g.Get("/", ctrl.ListPublic)
	g.Get("/:id/likes", reactions.Count(constants.ReactionLike, constants.TargetVideo))
	g.Get("/:key", ctrl.Detail)
}

// /api/u
func VideoUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewVideoController(db, nil)
	reactions := reactionController.NewReactionController(db)
	exists := reactionController.ExistsIn(db, &model.VideoModel{}, "video_id")

	g := r.Group("/videos")
	g.Get("/bookmarks", ctrl.MyBookmarks)
	g.Post("/:id/like", reactions.Toggle(constants.ReactionLike, constants.TargetVideo, exists))
	g.Post("/:id/bookmark", reactions.Toggle(constants.ReactionBookmark, constants.TargetVideo, exists))
}

// /api/a
func VideoAdminRoutes(r fiber.Router, db *gorm.DB, al audit.Logger) {
	ctrl := controller.NewVideoController(db, al)

	g := r.Group("/videos")
	g.Get("/", ctrl.ListAdmin)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
