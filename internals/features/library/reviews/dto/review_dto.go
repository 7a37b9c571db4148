package dto

import (
	"time"

	"github.com/google/uuid"

	"ilmhub_backend/internals/features/library/reviews/model"
)

type UpsertReviewRequest struct {
	ReviewRating  int    `json:"review_rating" validate:"required,min=1,max=5"`
	ReviewComment string `json:"review_comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ReviewID        uuid.UUID `json:"review_id"`
	ReviewBookID    uuid.UUID `json:"review_book_id"`
	ReviewUserID    string    `json:"review_user_id"`
	ReviewUserName  string    `json:"review_user_name,omitempty"`
	ReviewUserImage string    `json:"review_user_image,omitempty"`
	ReviewRating    int       `json:"review_rating"`
	ReviewComment   string    `json:"review_comment"`
	ReviewCreatedAt time.Time `json:"review_created_at"`
	ReviewUpdatedAt time.Time `json:"review_updated_at"`
}

func ToReviewResponse(m model.ReviewModel) ReviewResponse {
	return ReviewResponse{
		ReviewID:        m.ReviewID,
		ReviewBookID:    m.ReviewBookID,
		ReviewUserID:    m.ReviewUserID,
		ReviewRating:    m.ReviewRating,
		ReviewComment:   m.ReviewComment,
		ReviewCreatedAt: m.ReviewCreatedAt,
		ReviewUpdatedAt: m.ReviewUpdatedAt,
	}
}
