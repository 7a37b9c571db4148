package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MasalahModel is a published fiqh question with its scholarly answer.
type MasalahModel struct {
	MasalahID          uuid.UUID      `gorm:"column:masalah_id;type:uuid;primaryKey" json:"masalah_id"`
	MasalahTitle       string         `gorm:"column:masalah_title;type:varchar(255);not null" json:"masalah_title"`
	MasalahSlug        string         `gorm:"column:masalah_slug;type:varchar(160);not null;uniqueIndex" json:"masalah_slug"`
	MasalahQuestion    string         `gorm:"column:masalah_question;type:text;not null" json:"masalah_question"`
	MasalahAnswer      string         `gorm:"column:masalah_answer;type:text;not null" json:"masalah_answer"`
	MasalahReferences  string         `gorm:"column:masalah_references;type:text" json:"masalah_references"`
	MasalahMufti       string         `gorm:"column:masalah_mufti;type:varchar(160)" json:"masalah_mufti"`
	MasalahCategoryID  *uuid.UUID     `gorm:"column:masalah_category_id;type:uuid;index" json:"masalah_category_id"`
	MasalahTags        datatypes.JSON `gorm:"column:masalah_tags" json:"masalah_tags"`
	MasalahViews       int64          `gorm:"column:masalah_views;not null;default:0" json:"masalah_views"`
	MasalahIsPublished bool           `gorm:"column:masalah_is_published;not null" json:"masalah_is_published"`
	MasalahCreatedAt   time.Time      `gorm:"column:masalah_created_at;autoCreateTime" json:"masalah_created_at"`
	MasalahUpdatedAt   time.Time      `gorm:"column:masalah_updated_at;autoUpdateTime" json:"masalah_updated_at"`
	MasalahDeletedAt   gorm.DeletedAt `gorm:"column:masalah_deleted_at;index" json:"-"`
}

func (MasalahModel) TableName() string {
	return "masalah"
}

func (m *MasalahModel) BeforeCreate(tx *gorm.DB) error {
	if m.MasalahID == uuid.Nil {
		m.MasalahID = uuid.New()
	}
	return nil
}
