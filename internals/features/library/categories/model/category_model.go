package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryModel struct {
	CategoryID          uuid.UUID      `gorm:"column:category_id;type:uuid;primaryKey" json:"category_id"`
	CategoryName        string         `gorm:"column:category_name;type:varchar(120);not null" json:"category_name"`
	CategorySlug        string         `gorm:"column:category_slug;type:varchar(140);not null;uniqueIndex:uq_categories_kind_slug,priority:2" json:"category_slug"`
	CategoryKind        string         `gorm:"column:category_kind;type:varchar(20);not null;uniqueIndex:uq_categories_kind_slug,priority:1" json:"category_kind"`
	CategoryDescription string         `gorm:"column:category_description;type:text" json:"category_description"`
	CategoryCreatedAt   time.Time      `gorm:"column:category_created_at;autoCreateTime" json:"category_created_at"`
	CategoryUpdatedAt   time.Time      `gorm:"column:category_updated_at;autoUpdateTime" json:"category_updated_at"`
	CategoryDeletedAt   gorm.DeletedAt `gorm:"column:category_deleted_at;index" json:"-"`
}

func (CategoryModel) TableName() string {
	return "categories"
}

func (m *CategoryModel) BeforeCreate(tx *gorm.DB) error {
	if m.CategoryID == uuid.Nil {
		m.CategoryID = uuid.New()
	}
	return nil
}
