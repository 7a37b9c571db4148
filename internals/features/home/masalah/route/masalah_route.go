package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/masalah/controller"
	"ilmhub_backend/internals/features/home/masalah/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	"ilmhub_backend/internals/helpers/audit"
)

func MasalahPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMasalahController(db, nil)
	reactions := reactionController.NewReactionController(db)

	g := r.Group("/masalah")
	g.Get("/", ctrl.ListPublic)
	g.Get("/:id/likes", reactions.Count(constants.ReactionLike, constants.TargetMasalah))
	g.Get("/:key", ctrl.Detail)
}

func MasalahUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewMasalahController(db, nil)
	reactions := reactionController.NewReactionController(db)
	exists := reactionController.ExistsIn(db, &model.MasalahModel{}, "masalah_id")

	g := r.Group("/masalah")
	g.Get("/bookmarks", ctrl.MyBookmarks)
	g.Post("/:id/like", reactions.Toggle(constants.ReactionLike, constants.TargetMasalah, exists))
	g.Post("/:id/bookmark", reactions.Toggle(constants.ReactionBookmark, constants.TargetMasalah, exists))
}

func MasalahAdminRoutes(r fiber.Router, db *gorm.DB, al audit.Logger) {
	ctrl := controller.NewMasalahController(db, al)

	g := r.Group("/masalah")
	g.Get("/", ctrl.ListAdmin)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
