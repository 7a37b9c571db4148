package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookModel struct {
	BookID            uuid.UUID        `gorm:"column:book_id;type:uuid;primaryKey" json:"book_id"`
	BookTitle         string           `gorm:"column:book_title;type:varchar(255);not null" json:"book_title"`
	BookSlug          string           `gorm:"column:book_slug;type:varchar(160);not null;uniqueIndex" json:"book_slug"`
	BookAuthor        string           `gorm:"column:book_author;type:varchar(160);not null" json:"book_author"`
	BookPublisher     string           `gorm:"column:book_publisher;type:varchar(160)" json:"book_publisher"`
	BookDescription   string           `gorm:"column:book_description;type:text" json:"book_description"`
	BookISBN          string           `gorm:"column:book_isbn;type:varchar(20);index" json:"book_isbn"`
	BookLanguage      string           `gorm:"column:book_language;type:varchar(30)" json:"book_language"`
	BookPages         int              `gorm:"column:book_pages" json:"book_pages"`
	BookPrice         decimal.Decimal  `gorm:"column:book_price;type:numeric(12,2);not null" json:"book_price"`
	BookDiscountPrice *decimal.Decimal `gorm:"column:book_discount_price;type:numeric(12,2)" json:"book_discount_price"`
	BookStock         int              `gorm:"column:book_stock;not null;default:0" json:"book_stock"`
	BookCoverURL      string           `gorm:"column:book_cover_url;type:text" json:"book_cover_url"`
	BookCategoryID    *uuid.UUID       `gorm:"column:book_category_id;type:uuid;index" json:"book_category_id"`
	BookIsActive      bool             `gorm:"column:book_is_active;not null" json:"book_is_active"`
	BookCreatedAt     time.Time        `gorm:"column:book_created_at;autoCreateTime" json:"book_created_at"`
	BookUpdatedAt     time.Time        `gorm:"column:book_updated_at;autoUpdateTime" json:"book_updated_at"`
	BookDeletedAt     gorm.DeletedAt   `gorm:"column:book_deleted_at;index" json:"-"`
}

func (BookModel) TableName() string {
	return "books"
}

func (m *BookModel) BeforeCreate(tx *gorm.DB) error {
	if m.BookID == uuid.Nil {
		m.BookID = uuid.New()
	}
	return nil
}

// EffectivePrice is the discount price when it is set, positive and lower than the list price.
func (m BookModel) EffectivePrice() decimal.Decimal {
	if m.BookDiscountPrice != nil && m.BookDiscountPrice.IsPositive() && m.BookDiscountPrice.LessThan(m.BookPrice) {
		return *m.BookDiscountPrice
	}
	return m.BookPrice
}
