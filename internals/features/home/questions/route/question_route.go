package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/configs"
	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/questions/controller"
	"ilmhub_backend/internals/features/home/questions/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	"ilmhub_backend/internals/helpers/audit"
	"ilmhub_backend/internals/helpers/mailer"
	"ilmhub_backend/internals/middlewares"
)

func QuestionPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewQuestionController(db, nil, nil, "", "")
	reactions := reactionController.NewReactionController(db)

	g := r.Group("/questions")
	g.Get("/", ctrl.ListPublic)
	g.Get("/:id", ctrl.DetailPublic)
	g.Get("/:id/likes", reactions.Count(constants.ReactionLike, constants.TargetQuestion))
}

func QuestionUserRoutes(r fiber.Router, db *gorm.DB, storage fiber.Storage) {
	ctrl := controller.NewQuestionController(db, nil, nil, "", "")
	reactions := reactionController.NewReactionController(db)
	exists := reactionController.ExistsIn(db, &model.QuestionModel{}, "question_id")

	g := r.Group("/questions")
	g.Get("/", ctrl.ListMine)
	g.Post("/", middlewares.ContentRateLimiter(storage), ctrl.Create)
	g.Post("/:id/like", reactions.Toggle(constants.ReactionLike, constants.TargetQuestion, exists))
}

func QuestionAdminRoutes(r fiber.Router, db *gorm.DB, al audit.Logger, m mailer.Mailer, conf configs.AppConfig) {
	ctrl := controller.NewQuestionController(db, al, m, conf.AppName, conf.AppBaseURL)

	g := r.Group("/questions")
	g.Get("/", ctrl.ListAdmin)
	g.Patch("/:id/answer", ctrl.Answer)
	g.Patch("/:id/reject", ctrl.Reject)
	g.Delete("/:id", ctrl.Delete)
}
