package controller

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookModel "ilmhub_backend/internals/features/library/books/model"
	"ilmhub_backend/internals/features/library/reviews/dto"
	"ilmhub_backend/internals/features/library/reviews/model"
	helper "ilmhub_backend/internals/helpers"
)

type ReviewController struct {
	DB *gorm.DB
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{DB: db}
}

func (rc *ReviewController) bookExists(c *fiber.Ctx, id uuid.UUID) (bool, error) {
	var n int64
	err := rc.DB.WithContext(c.UserContext()).Model(&bookModel.BookModel{}).
		Where("book_id = ? AND book_is_active = ?", id, true).Count(&n).Error
	return n > 0, err
}

type reviewRow struct {
	model.ReviewModel
	FirstName string
	LastName  string
	ImageURL  string
}

// GET /api/public/books/:id/reviews
func (rc *ReviewController) ListByBook(c *fiber.Ctx) error {
	bookID, err := helper.ParseUUIDParam(c, "id", "Book")
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "created_at", "desc", helper.DefaultOpts)

	q := rc.DB.WithContext(c.UserContext()).Model(&model.ReviewModel{}).
		Where("review_book_id = ?", bookID)
	if v := c.QueryInt("rating", 0); v >= 1 && v <= 5 {
		q = q.Where("review_rating = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count reviews")
	}

	var rows []reviewRow
	if err := q.Select("book_reviews.*, users.first_name, users.last_name, users.image_url").
		Joins("LEFT JOIN users ON users.id = book_reviews.review_user_id").
		Order(p.OrderClause(map[string]string{
			"created_at": "review_created_at",
			"rating":     "review_rating",
		}, "created_at")).
		Limit(p.Limit()).Offset(p.Offset()).
		Scan(&rows).Error; err != nil {
		log.Printf("[ERROR] list reviews %s: %v", bookID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch reviews")
	}

	out := make([]dto.ReviewResponse, 0, len(rows))
	for _, r := range rows {
		item := dto.ToReviewResponse(r.ReviewModel)
		item.ReviewUserName = joinName(r.FirstName, r.LastName)
		item.ReviewUserImage = r.ImageURL
		out = append(out, item)
	}
	return helper.JsonList(c, "ok", out, helper.BuildPagination(total, p))
}

// PUT /api/u/books/:id/review
func (rc *ReviewController) Upsert(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	bookID, err := helper.ParseUUIDParam(c, "id", "Book")
	if err != nil {
		return err
	}
	var req dto.UpsertReviewRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	ok, err := rc.bookExists(c, bookID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load book")
	}
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "Book not found")
	}

	row := model.ReviewModel{
		ReviewBookID:  bookID,
		ReviewUserID:  userID,
		ReviewRating:  req.ReviewRating,
		ReviewComment: req.ReviewComment,
	}
	db := rc.DB.WithContext(c.UserContext())
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "review_book_id"}, {Name: "review_user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"review_rating":     req.ReviewRating,
			"review_comment":    req.ReviewComment,
			"review_updated_at": time.Now(),
			"review_deleted_at": nil,
		}),
	}).Create(&row).Error; err != nil {
		log.Printf("[ERROR] upsert review %s/%s: %v", bookID, userID, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to save review")
	}

	var saved model.ReviewModel
	if err := db.Where("review_book_id = ? AND review_user_id = ?", bookID, userID).First(&saved).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to load review")
	}
	return helper.JsonOK(c, "Review saved", dto.ToReviewResponse(saved))
}

// DELETE /api/u/books/:id/review
func (rc *ReviewController) DeleteOwn(c *fiber.Ctx) error {
	userID, err := helper.RequireUserID(c)
	if err != nil {
		return err
	}
	bookID, err := helper.ParseUUIDParam(c, "id", "Book")
	if err != nil {
		return err
	}
	res := rc.DB.WithContext(c.UserContext()).
		Where("review_book_id = ? AND review_user_id = ?", bookID, userID).
		Delete(&model.ReviewModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete review")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Review not found")
	}
	return helper.JsonDeleted(c, "Review deleted", fiber.Map{"review_book_id": bookID})
}

func joinName(first, last string) string {
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	}
	return last
}
