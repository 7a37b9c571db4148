package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentModel hangs off any commentable target; replies go one level deep.
type CommentModel struct {
	CommentID         uuid.UUID      `gorm:"column:comment_id;type:uuid;primaryKey" json:"comment_id"`
	CommentTargetType string         `gorm:"column:comment_target_type;type:varchar(20);not null;index:idx_comments_target,priority:1" json:"comment_target_type"`
	CommentTargetID   uuid.UUID      `gorm:"column:comment_target_id;type:uuid;not null;index:idx_comments_target,priority:2" json:"comment_target_id"`
	CommentUserID     string         `gorm:"column:comment_user_id;type:varchar(64);not null;index" json:"comment_user_id"`
	CommentParentID   *uuid.UUID     `gorm:"column:comment_parent_id;type:uuid;index" json:"comment_parent_id"`
	CommentContent    string         `gorm:"column:comment_content;type:text;not null" json:"comment_content"`
	CommentIsEdited   bool           `gorm:"column:comment_is_edited;not null" json:"comment_is_edited"`
	CommentCreatedAt  time.Time      `gorm:"column:comment_created_at;autoCreateTime" json:"comment_created_at"`
	CommentUpdatedAt  time.Time      `gorm:"column:comment_updated_at;autoUpdateTime" json:"comment_updated_at"`
	CommentDeletedAt  gorm.DeletedAt `gorm:"column:comment_deleted_at;index" json:"-"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func (m *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if m.CommentID == uuid.Nil {
		m.CommentID = uuid.New()
	}
	return nil
}
