package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewModel is one rating per (book, user); re-posting updates it.
type ReviewModel struct {
	ReviewID        uuid.UUID      `gorm:"column:review_id;type:uuid;primaryKey" json:"review_id"`
	ReviewBookID    uuid.UUID      `gorm:"column:review_book_id;type:uuid;not null;uniqueIndex:uq_book_reviews_book_user,priority:1" json:"review_book_id"`
	ReviewUserID    string         `gorm:"column:review_user_id;type:varchar(64);not null;uniqueIndex:uq_book_reviews_book_user,priority:2" json:"review_user_id"`
	ReviewRating    int            `gorm:"column:review_rating;not null" json:"review_rating"`
	ReviewComment   string         `gorm:"column:review_comment;type:text" json:"review_comment"`
	ReviewCreatedAt time.Time      `gorm:"column:review_created_at;autoCreateTime" json:"review_created_at"`
	ReviewUpdatedAt time.Time      `gorm:"column:review_updated_at;autoUpdateTime" json:"review_updated_at"`
	ReviewDeletedAt gorm.DeletedAt `gorm:"column:review_deleted_at;index" json:"-"`
}

func (ReviewModel) TableName() string {
	return "book_reviews"
}

func (m *ReviewModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReviewID == uuid.Nil {
		m.ReviewID = uuid.New()
	}
	return nil
}
