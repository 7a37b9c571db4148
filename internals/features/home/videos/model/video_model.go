package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VideoModel struct {
	VideoID          uuid.UUID      `gorm:"column:video_id;type:uuid;primaryKey" json:"video_id"`
	VideoTitle       string         `gorm:"column:video_title;type:varchar(255);not null" json:"video_title"`
	VideoSlug        string         `gorm:"column:video_slug;type:varchar(160);not null;uniqueIndex" json:"video_slug"`
	VideoDescription string         `gorm:"column:video_description;type:text" json:"video_description"`
	VideoYoutubeID   string         `gorm:"column:video_youtube_id;type:varchar(32);not null" json:"video_youtube_id"`
	VideoSpeaker     string         `gorm:"column:video_speaker;type:varchar(160)" json:"video_speaker"`
	VideoCategoryID  *uuid.UUID     `gorm:"column:video_category_id;type:uuid;index" json:"video_category_id"`
	VideoDuration    int            `gorm:"column:video_duration" json:"video_duration"` // seconds
	VideoViews       int64          `gorm:"column:video_views;not null;default:0" json:"video_views"`
	VideoIsPublished bool           `gorm:"column:video_is_published;not null" json:"video_is_published"`
	VideoCreatedAt   time.Time      `gorm:"column:video_created_at;autoCreateTime" json:"video_created_at"`
	VideoUpdatedAt   time.Time      `gorm:"column:video_updated_at;autoUpdateTime" json:"video_updated_at"`
	VideoDeletedAt   gorm.DeletedAt `gorm:"column:video_deleted_at;index" json:"-"`
}

func (VideoModel) TableName() string {
	return "videos"
}

func (m *VideoModel) BeforeCreate(tx *gorm.DB) error {
	if m.VideoID == uuid.Nil {
		m.VideoID = uuid.New()
	}
	return nil
}
