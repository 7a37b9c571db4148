package dto

import (
	"time"

	"github.com/google/uuid"

	"ilmhub_backend/internals/features/library/categories/model"
)

type CreateCategoryRequest struct {
	CategoryName        string `json:"category_name" validate:"required,min=2,max=120"`
	CategorySlug        string `json:"category_slug" validate:"omitempty,max=140"`
	CategoryKind        string `json:"category_kind" validate:"required,oneof=book masalah video"`
	CategoryDescription string `json:"category_description" validate:"omitempty,max=2000"`
}

type UpdateCategoryRequest struct {
	CategoryName        *string `json:"category_name" validate:"omitempty,min=2,max=120"`
	CategorySlug        *string `json:"category_slug" validate:"omitempty,max=140"`
	CategoryDescription *string `json:"category_description" validate:"omitempty,max=2000"`
}

type CategoryResponse struct {
	CategoryID          uuid.UUID `json:"category_id"`
	CategoryName        string    `json:"category_name"`
	CategorySlug        string    `json:"category_slug"`
	CategoryKind        string    `json:"category_kind"`
	CategoryDescription string    `json:"category_description"`
	CategoryCreatedAt   time.Time `json:"category_created_at"`
	CategoryUpdatedAt   time.Time `json:"category_updated_at"`
}

func ToCategoryResponse(m model.CategoryModel) CategoryResponse {
	return CategoryResponse{
		CategoryID:          m.CategoryID,
		CategoryName:        m.CategoryName,
		CategorySlug:        m.CategorySlug,
		CategoryKind:        m.CategoryKind,
		CategoryDescription: m.CategoryDescription,
		CategoryCreatedAt:   m.CategoryCreatedAt,
		CategoryUpdatedAt:   m.CategoryUpdatedAt,
	}
}

func ToCategoryResponseList(list []model.CategoryModel) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToCategoryResponse(m))
	}
	return out
}
