package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"ilmhub_backend/internals/constants"
	"ilmhub_backend/internals/features/home/comments/controller"
	commentModel "ilmhub_backend/internals/features/home/comments/model"
	masalahModel "ilmhub_backend/internals/features/home/masalah/model"
	questionModel "ilmhub_backend/internals/features/home/questions/model"
	videoModel "ilmhub_backend/internals/features/home/videos/model"
	bookModel "ilmhub_backend/internals/features/library/books/model"
	eventModel "ilmhub_backend/internals/features/programme/events/model"
	reactionController "ilmhub_backend/internals/features/reactions/reactions/controller"
	"ilmhub_backend/internals/middlewares"
)

// Targets lists every commentable table with its existence check.
func Targets(db *gorm.DB) map[string]reactionController.TargetChecker {
	return map[string]reactionController.TargetChecker{
		constants.TargetVideo:    reactionController.ExistsIn(db, &videoModel.VideoModel{}, "video_id"),
		constants.TargetMasalah:  reactionController.ExistsIn(db, &masalahModel.MasalahModel{}, "masalah_id"),
		constants.TargetQuestion: reactionController.ExistsIn(db, &questionModel.QuestionModel{}, "question_id"),
		constants.TargetEvent:    reactionController.ExistsIn(db, &eventModel.EventModel{}, "event_id"),
		constants.TargetBook:     reactionController.ExistsIn(db, &bookModel.BookModel{}, "book_id"),
	}
}

// /api/public
func CommentPublicRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewCommentController(db, Targets(db))
	reactions := reactionController.NewReactionController(db)

	g := r.Group("/comments")
	g.Get("/", ctrl.ListByTarget)
	g.Get("/:id/likes", reactions.Count(constants.ReactionLike, constants.TargetComment))
}

// /api/u
func CommentUserRoutes(r fiber.Router, db *gorm.DB, storage fiber.Storage) {
	ctrl := controller.NewCommentController(db, Targets(db))
	reactions := reactionController.NewReactionController(db)
	exists := reactionController.ExistsIn(db, &commentModel.CommentModel{}, "comment_id")

	g := r.Group("/comments")
	g.Post("/", middlewares.ContentRateLimiter(storage), ctrl.Create)
	g.Patch("/:id", ctrl.Update)
	g.Delete("/:id", ctrl.Delete)
	g.Post("/:id/like", reactions.Toggle(constants.ReactionLike, constants.TargetComment, exists))
}
