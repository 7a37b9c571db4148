package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ilmhub_backend/internals/features/library/books/model"
)

type CreateBookRequest struct {
	BookTitle         string           `json:"book_title" validate:"required,min=1,max=255"`
	BookSlug          string           `json:"book_slug" validate:"omitempty,max=160"`
	BookAuthor        string           `json:"book_author" validate:"required,max=160"`
	BookPublisher     string           `json:"book_publisher" validate:"omitempty,max=160"`
	BookDescription   string           `json:"book_description"`
	BookISBN          string           `json:"book_isbn" validate:"omitempty,max=20"`
	BookLanguage      string           `json:"book_language" validate:"omitempty,max=30"`
	BookPages         int              `json:"book_pages" validate:"gte=0"`
	BookPrice         decimal.Decimal  `json:"book_price"`
	BookDiscountPrice *decimal.Decimal `json:"book_discount_price"`
	BookStock         int              `json:"book_stock" validate:"gte=0"`
	BookCoverURL      string           `json:"book_cover_url" validate:"omitempty,url"`
	BookCategoryID    *uuid.UUID       `json:"book_category_id"`
	BookIsActive      *bool            `json:"book_is_active"`
}

type UpdateBookRequest struct {
	BookTitle         *string          `json:"book_title" validate:"omitempty,min=1,max=255"`
	BookSlug          *string          `json:"book_slug" validate:"omitempty,max=160"`
	BookAuthor        *string          `json:"book_author" validate:"omitempty,max=160"`
	BookPublisher     *string          `json:"book_publisher" validate:"omitempty,max=160"`
	BookDescription   *string          `json:"book_description"`
	BookISBN          *string          `json:"book_isbn" validate:"omitempty,max=20"`
	BookLanguage      *string          `json:"book_language" validate:"omitempty,max=30"`
	BookPages         *int             `json:"book_pages" validate:"omitempty,gte=0"`
	BookPrice         *decimal.Decimal `json:"book_price"`
	BookDiscountPrice *decimal.Decimal `json:"book_discount_price"`
	ClearDiscount     bool             `json:"clear_discount"`
	BookStock         *int             `json:"book_stock" validate:"omitempty,gte=0"`
	BookCoverURL      *string          `json:"book_cover_url" validate:"omitempty,url"`
	BookCategoryID    *uuid.UUID       `json:"book_category_id"`
	BookIsActive      *bool            `json:"book_is_active"`
}

type BookResponse struct {
	BookID             uuid.UUID        `json:"book_id"`
	BookTitle          string           `json:"book_title"`
	BookSlug           string           `json:"book_slug"`
	BookAuthor         string           `json:"book_author"`
	BookPublisher      string           `json:"book_publisher"`
	BookDescription    string           `json:"book_description"`
	BookISBN           string           `json:"book_isbn"`
	BookLanguage       string           `json:"book_language"`
	BookPages          int              `json:"book_pages"`
	BookPrice          decimal.Decimal  `json:"book_price"`
	BookDiscountPrice  *decimal.Decimal `json:"book_discount_price"`
	BookEffectivePrice decimal.Decimal  `json:"book_effective_price"`
	BookStock          int              `json:"book_stock"`
	BookInStock        bool             `json:"book_in_stock"`
	BookCoverURL       string           `json:"book_cover_url"`
	BookCategoryID     *uuid.UUID       `json:"book_category_id"`
	BookIsActive       bool             `json:"book_is_active"`
	BookCreatedAt      time.Time        `json:"book_created_at"`
	BookUpdatedAt      time.Time        `json:"book_updated_at"`

	// detail only
	AverageRating *float64 `json:"average_rating,omitempty"`
	ReviewCount   *int64   `json:"review_count,omitempty"`
}

func ToBookResponse(m model.BookModel) BookResponse {
	return BookResponse{
		BookID:             m.BookID,
		BookTitle:          m.BookTitle,
		BookSlug:           m.BookSlug,
		BookAuthor:         m.BookAuthor,
		BookPublisher:      m.BookPublisher,
		BookDescription:    m.BookDescription,
		BookISBN:           m.BookISBN,
		BookLanguage:       m.BookLanguage,
		BookPages:          m.BookPages,
		BookPrice:          m.BookPrice,
		BookDiscountPrice:  m.BookDiscountPrice,
		BookEffectivePrice: m.EffectivePrice(),
		BookStock:          m.BookStock,
		BookInStock:        m.BookStock > 0,
		BookCoverURL:       m.BookCoverURL,
		BookCategoryID:     m.BookCategoryID,
		BookIsActive:       m.BookIsActive,
		BookCreatedAt:      m.BookCreatedAt,
		BookUpdatedAt:      m.BookUpdatedAt,
	}
}

func ToBookResponseList(list []model.BookModel) []BookResponse {
	out := make([]BookResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToBookResponse(m))
	}
	return out
}
