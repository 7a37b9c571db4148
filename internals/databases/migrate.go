package database

import (
	"log"

	"gorm.io/gorm"

	orderModel "ilmhub_backend/internals/features/commerce/orders/model"
	paymentModel "ilmhub_backend/internals/features/commerce/payments/model"
	commentModel "ilmhub_backend/internals/features/home/comments/model"
	masalahModel "ilmhub_backend/internals/features/home/masalah/model"
	questionModel "ilmhub_backend/internals/features/home/questions/model"
	subscriptionModel "ilmhub_backend/internals/features/home/subscriptions/model"
	videoModel "ilmhub_backend/internals/features/home/videos/model"
	institutionModel "ilmhub_backend/internals/features/institutions/institutions/model"
	bookModel "ilmhub_backend/internals/features/library/books/model"
	categoryModel "ilmhub_backend/internals/features/library/categories/model"
	reviewModel "ilmhub_backend/internals/features/library/reviews/model"
	eventModel "ilmhub_backend/internals/features/programme/events/model"
	reactionModel "ilmhub_backend/internals/features/reactions/reactions/model"
	userModel "ilmhub_backend/internals/features/users/users/model"
)

// Models lists every table the service owns, parents first.
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&categoryModel.CategoryModel{},
		&bookModel.BookModel{},
		&reviewModel.ReviewModel{},
		&videoModel.VideoModel{},
		&masalahModel.MasalahModel{},
		&questionModel.QuestionModel{},
		&commentModel.CommentModel{},
		&reactionModel.ReactionModel{},
		&subscriptionModel.SubscriptionModel{},
		&eventModel.EventModel{},
		&institutionModel.InstitutionModel{},
		&orderModel.OrderModel{},
		&paymentModel.GatewayEventModel{},
	}
}

func Migrate(db *gorm.DB) error {
	log.Println("🛠  Running auto-migrate...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Println("✅ Migration done.")
	return nil
}
