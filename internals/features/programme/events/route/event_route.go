package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/programme/events/controller"
	"ilmhub_backend/internals/features/programme/events/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	"ilmhub_backend/internals/helpers/audit"
)

// /api/public
func EventPublicRoutes(r fiber.Router, db *gorm.DB, loc *time.Location) {
	ctrl := controller.NewEventController(db, nil, loc)
	reactions := reactionController.NewReactionController(db)

	g := r.Group("/events")
	g.Get("/", ctrl.ListPublic)
	g.Get("/:id/interested", reactions.Count(constants.ReactionInterest, constants.TargetEvent))
	g.Get("/:key", ctrl.Detail)
}

// /api/u
func EventUserRoutes(r fiber.Router, db *gorm.DB, loc *time.Location) {
	ctrl := controller.NewEventController(db, nil, loc)
	reactions := reactionController.NewReactionController(db)
	exists := reactionController.ExistsIn(db, &model.EventModel{}, "event_id")

	g := r.Group("/events")
	g.Get("/interested", ctrl.MyInterested)
	g.Post("/:id/interest", reactions.Toggle(constants.ReactionInterest, constants.TargetEvent, exists))
}

// /api/a
func EventAdminRoutes(r fiber.Router, db *gorm.DB, al audit.Logger, loc *time.Location) {
	ctrl := controller.NewEventController(db, al, loc)

	g := r.Group("/events")
	g.Get("/", ctrl.ListAdmin)
	g.Post("/", ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
}
